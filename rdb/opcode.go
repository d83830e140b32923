package rdb

// Opcode tags one snapshot record (spec §3 "Snapshot record", §4.2 "File
// layout"). Names and values are grounded on the Redis RDB format
// (_examples/original_source/src/rdb.c's RDB_OPCODE_*/RDB_TYPE_*/RDB_ENC_*
// constants) since the distilled spec describes the opcodes by role but
// not by wire value, and interoperating with the documented byte layout
// (e.g. scenario S3's expected `0xC1` tag) requires the real constants.
type Opcode byte

const (
	OpSlotInfo    Opcode = 244
	OpFunction2   Opcode = 245
	OpFunction    Opcode = 246
	OpModuleAux   Opcode = 247
	OpIdle        Opcode = 248
	OpFreq        Opcode = 249
	OpAux         Opcode = 250
	OpResizeDB    Opcode = 251
	OpExpireMS    Opcode = 252
	OpExpireSec   Opcode = 253
	OpSelectDB    Opcode = 254
	OpEOF         Opcode = 255
)

// ValueType tags the encoding of an entry's value (spec §4.2 "Value
// encoding dispatch").
type ValueType byte

const (
	TypeString ValueType = iota
	TypeList
	TypeSet
	TypeZSet
	TypeHash
	TypeZSet2 // binary-double sorted set
	TypeModule
	TypeModule2
	_ // reserved (historical stream placeholder)
	TypeHashZipmap
	TypeListZiplist
	TypeSetIntset
	TypeZSetZiplist
	TypeHashZiplist
	TypeListQuicklist
	TypeStreamListpacks
	TypeHashListpack
	TypeZSetListpack
	TypeListQuicklist2
	TypeStreamListpacks2
	TypeSetListpack
	TypeStreamListpacks3
	TypeHashMetadata
	TypeHashListpackEx
	TypeExtension = ValueType(200) // extension-module opaque values (msgpack-enveloped)
)

// Special-encoding discriminators for the `11` length-prefix form (spec
// §4.2 "Length encoding (compact)").
const (
	EncInt8  = 0
	EncInt16 = 1
	EncInt32 = 2
	EncLZF   = 3
)

// Length-prefix format selectors, the top two bits of the first length
// byte.
const (
	len6Bit    = 0b00
	len14Bit   = 0b01
	lenSpecial = 0b11

	len32BitMarker = 0x80
	len64BitMarker = 0x81
)
