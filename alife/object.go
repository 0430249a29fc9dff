package alife

import (
	"fmt"

	"github.com/meigma/xrf/chunk"
	"github.com/meigma/xrf/internal/geom"
	"github.com/meigma/xrf/ltx"
)

const (
	// NetActionSpawn is the only packet kind stored in spawn files.
	NetActionSpawn uint16 = 1
	// FlagSpawnVersion marks packets that carry an explicit version.
	FlagSpawnVersion uint16 = 0x20
	// MinSpawnVersion is the oldest packet version that can be decoded;
	// packets must be newer than it.
	MinSpawnVersion uint16 = 120

	spawnChunkID  = 0
	updateChunkID = 1
)

// Object is one ALife object: the spawn packet header, its class data and
// the raw update packet.
type Object struct {
	NetAction      uint16
	Section        string
	Name           string
	ScriptGameID   uint8
	ScriptRP       uint8
	Position       geom.Vector3d
	Direction      geom.Vector3d
	RespawnTime    uint16
	ID             uint16
	ParentID       uint16
	PhantomID      uint16
	ScriptFlags    uint16
	Version        uint16
	GameType       uint16
	ScriptVersion  uint16
	ClientDataSize uint16
	SpawnID        uint16

	// Data is the class specific record selected by Class.
	Data Data
	// UpdateData is the update packet body, kept opaque.
	UpdateData []byte
}

// Class returns the server class derived from the object's section.
func (o *Object) Class() Class {
	return ClassOf(o.Section)
}

// Read decodes the spawn (chunk 0) and update (chunk 1) children of r.
func (o *Object) Read(r *chunk.Reader) error {
	spawn, err := r.ReadChildByIndex(spawnChunkID)
	if err != nil {
		return fmt.Errorf("alife: spawn packet: %w", err)
	}
	if err := o.readSpawn(spawn.Reader()); err != nil {
		return fmt.Errorf("alife: object %q: %w", o.Name, err)
	}

	update, err := r.ReadChildByIndex(updateChunkID)
	if err != nil {
		return fmt.Errorf("alife: update packet: %w", err)
	}
	if err := o.readUpdate(update.Reader()); err != nil {
		return fmt.Errorf("alife: object %q: %w", o.Name, err)
	}
	return r.EnsureEnded("alife object")
}

func (o *Object) readSpawn(r *chunk.Reader) error {
	size, err := r.ReadU16()
	if err != nil {
		return err
	}
	if err := chunk.Expect("spawn packet size", r.Len()-2, int(size)); err != nil {
		return err
	}

	f := r.Fields()
	f.U16(&o.NetAction)
	if f.Err() == nil {
		if err := chunk.Expect("net action", NetActionSpawn, o.NetAction); err != nil {
			return err
		}
	}
	f.String(&o.Section)
	f.String(&o.Name)
	f.U8(&o.ScriptGameID)
	f.U8(&o.ScriptRP)
	f.Value(&o.Position)
	f.Value(&o.Direction)
	f.U16(&o.RespawnTime)
	f.U16(&o.ID)
	f.U16(&o.ParentID)
	f.U16(&o.PhantomID)
	f.U16(&o.ScriptFlags)
	if err := f.Err(); err != nil {
		return err
	}

	o.Version = 0
	if o.ScriptFlags&FlagSpawnVersion != 0 {
		f.U16(&o.Version)
	}
	if f.Err() == nil && o.Version <= MinSpawnVersion {
		return chunk.Errorf(chunk.ErrUnsupported, "spawn packet version %d, flags %#x", o.Version, o.ScriptFlags)
	}
	f.U16(&o.GameType)
	f.U16(&o.ScriptVersion)
	f.U16(&o.ClientDataSize)
	f.U16(&o.SpawnID)
	var dataSize uint16
	f.U16(&dataSize)
	if err := f.Err(); err != nil {
		return err
	}
	if err := chunk.Expect("client data size", 0, o.ClientDataSize); err != nil {
		return err
	}
	if err := chunk.Expect("class data size", r.Remaining(), int(dataSize)-2); err != nil {
		return err
	}

	if o.Data, err = NewData(o.Class()); err != nil {
		return err
	}
	if err := o.Data.Read(r); err != nil {
		return err
	}
	return r.EnsureEnded(string(o.Class()))
}

func (o *Object) readUpdate(r *chunk.Reader) error {
	size, err := r.ReadU16()
	if err != nil {
		return err
	}
	if err := chunk.Expect("update packet size", r.Len()-2, int(size)); err != nil {
		return err
	}
	updateSize, err := r.ReadU16()
	if err != nil {
		return err
	}
	if err := chunk.Expect("update size", 0, updateSize); err != nil {
		return err
	}
	o.UpdateData = r.ReadRemaining()
	return nil
}

// Write encodes the spawn and update children.
func (o *Object) Write(w *chunk.Writer) error {
	if o.Data == nil {
		return chunk.Errorf(chunk.ErrInvalidFormat, "alife: object %q has no class data", o.Name)
	}

	data := chunk.NewWriter(w.Order())
	if err := o.Data.Write(data); err != nil {
		return fmt.Errorf("alife: object %q: %w", o.Name, err)
	}
	dataBytes := data.FlushRawIntoBuffer()

	packet := chunk.NewWriter(w.Order())
	f := packet.Fields()
	f.U16(o.NetAction)
	f.String(o.Section)
	f.String(o.Name)
	f.U8(o.ScriptGameID)
	f.U8(o.ScriptRP)
	f.Value(&o.Position)
	f.Value(&o.Direction)
	f.U16(o.RespawnTime)
	f.U16(o.ID)
	f.U16(o.ParentID)
	f.U16(o.PhantomID)
	f.U16(o.ScriptFlags)
	if o.ScriptFlags&FlagSpawnVersion != 0 {
		f.U16(o.Version)
	}
	f.U16(o.GameType)
	f.U16(o.ScriptVersion)
	f.U16(o.ClientDataSize)
	f.U16(o.SpawnID)
	if err := packetLen(len(dataBytes) + 2); err != nil {
		return err
	}
	f.U16(uint16(len(dataBytes) + 2))
	f.Do(func(w *chunk.Writer) error {
		_, err := w.Write(dataBytes)
		return err
	})
	if err := f.Err(); err != nil {
		return fmt.Errorf("alife: object %q: %w", o.Name, err)
	}
	if err := writeSized(w, spawnChunkID, packet.FlushRawIntoBuffer()); err != nil {
		return err
	}

	update := chunk.NewWriter(w.Order())
	if err := update.WriteU16(0); err != nil {
		return err
	}
	if _, err := update.Write(o.UpdateData); err != nil {
		return err
	}
	return writeSized(w, updateChunkID, update.FlushRawIntoBuffer())
}

// writeSized emits a child chunk whose payload is a u16 length followed by
// body.
func writeSized(w *chunk.Writer, id uint32, body []byte) error {
	if err := packetLen(len(body)); err != nil {
		return err
	}
	payload := chunk.NewWriter(w.Order())
	if err := payload.WriteU16(uint16(len(body))); err != nil {
		return err
	}
	if _, err := payload.Write(body); err != nil {
		return err
	}
	return w.WriteChunk(id, payload.FlushRawIntoBuffer())
}

func packetLen(n int) error {
	if n > 0xFFFF {
		return chunk.Errorf(chunk.ErrInvalidFormat, "alife: packet of %d bytes exceeds u16 length", n)
	}
	return nil
}

// Import reads the object from s. The class is derived from the section
// field.
func (o *Object) Import(s *ltx.Section) error {
	f := s.Fields()
	f.U16("net_action", &o.NetAction)
	f.String("section", &o.Section)
	f.String("name", &o.Name)
	f.U8("script_game_id", &o.ScriptGameID)
	f.U8("script_rp", &o.ScriptRP)
	geom.ImportVector(f, "position", &o.Position)
	geom.ImportVector(f, "direction", &o.Direction)
	f.U16("respawn_time", &o.RespawnTime)
	f.U16("id", &o.ID)
	f.U16("parent_id", &o.ParentID)
	f.U16("phantom_id", &o.PhantomID)
	f.U16("script_flags", &o.ScriptFlags)
	f.U16("version", &o.Version)
	f.U16("game_type", &o.GameType)
	f.U16("script_version", &o.ScriptVersion)
	f.U16("client_data_size", &o.ClientDataSize)
	f.U16("spawn_id", &o.SpawnID)
	f.Base64("update_data", &o.UpdateData)
	if err := f.Err(); err != nil {
		return fmt.Errorf("alife: import [%s]: %w", s.Name, err)
	}

	data, err := NewData(o.Class())
	if err != nil {
		return fmt.Errorf("alife: import [%s]: %w", s.Name, err)
	}
	if err := data.Import(s); err != nil {
		return fmt.Errorf("alife: import [%s]: %w", s.Name, err)
	}
	o.Data = data
	return nil
}

// Export stores the object in s.
func (o *Object) Export(s *ltx.Section) {
	s.SetUint("net_action", uint64(o.NetAction)).
		Set("section", o.Section).
		Set("name", o.Name).
		SetUint("script_game_id", uint64(o.ScriptGameID)).
		SetUint("script_rp", uint64(o.ScriptRP)).
		Set("position", o.Position.String()).
		Set("direction", o.Direction.String()).
		SetUint("respawn_time", uint64(o.RespawnTime)).
		SetUint("id", uint64(o.ID)).
		SetUint("parent_id", uint64(o.ParentID)).
		SetUint("phantom_id", uint64(o.PhantomID)).
		SetUint("script_flags", uint64(o.ScriptFlags)).
		SetUint("version", uint64(o.Version)).
		SetUint("game_type", uint64(o.GameType)).
		SetUint("script_version", uint64(o.ScriptVersion)).
		SetUint("client_data_size", uint64(o.ClientDataSize)).
		SetUint("spawn_id", uint64(o.SpawnID))
	if o.Data != nil {
		o.Data.Export(s)
	}
	s.SetBase64("update_data", o.UpdateData)
}
