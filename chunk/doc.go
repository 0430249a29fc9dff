// Package chunk implements the tagged binary container used by X-Ray
// engine assets.
//
// A chunk is a record of the form
//
//	id:u32 size:u32 payload:[size]byte
//
// and a payload is either opaque, a sequence of primitive fields, or a
// concatenation of child chunks using the same envelope. Some containers
// instead hold size-packed records (size:u32 payload:[size-4]byte) with
// no id tag; which scheme applies is decided by the containing type.
//
// Readers and writers carry a [binary.ByteOrder] chosen once at the root
// and inherited by every child. Engine files are little-endian, see
// [EngineOrder].
//
// Domain records implement [Codec]. The generic helpers [ReadList],
// [WriteList], [ReadOptional] and [WriteOptional] layer the u32-counted
// list and u8-flagged optional encodings on top of any codec.
package chunk
