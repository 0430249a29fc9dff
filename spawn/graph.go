package spawn

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/meigma/xrf/chunk"
	"github.com/meigma/xrf/internal/geom"
	"github.com/meigma/xrf/ltx"
)

// GraphHeader describes the game graph stored in chunk 4.
type GraphHeader struct {
	Version       uint8
	VerticesCount uint16
	EdgesCount    uint32
	PointsCount   uint32
	GUID          uuid.UUID
	LevelsCount   uint8
}

func (h *GraphHeader) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.U8(&h.Version)
	f.U16(&h.VerticesCount)
	f.U32(&h.EdgesCount)
	f.U32(&h.PointsCount)
	f.Do(readUUID(&h.GUID))
	f.U8(&h.LevelsCount)
	return f.Err()
}

func (h *GraphHeader) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.U8(h.Version)
	f.U16(h.VerticesCount)
	f.U32(h.EdgesCount)
	f.U32(h.PointsCount)
	f.Do(writeUUID(h.GUID))
	f.U8(h.LevelsCount)
	return f.Err()
}

func (h *GraphHeader) Import(s *ltx.Section) error {
	f := s.Fields()
	f.U8("version", &h.Version)
	f.U16("vertices_count", &h.VerticesCount)
	f.U32("edges_count", &h.EdgesCount)
	f.U32("points_count", &h.PointsCount)
	f.Do(importUUID("guid", &h.GUID))
	f.U8("levels_count", &h.LevelsCount)
	return f.Err()
}

func (h *GraphHeader) Export(s *ltx.Section) {
	s.SetUint("version", uint64(h.Version)).
		SetUint("vertices_count", uint64(h.VerticesCount)).
		SetUint("edges_count", uint64(h.EdgesCount)).
		SetUint("points_count", uint64(h.PointsCount)).
		SetUint("levels_count", uint64(h.LevelsCount)).
		Set("guid", h.GUID.String())
}

// GraphLevel is one level known to the game graph.
type GraphLevel struct {
	Name    string
	Offset  geom.Vector3d
	ID      uint8
	Section string
	GUID    uuid.UUID
}

func (l *GraphLevel) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.String(&l.Name)
	f.Value(&l.Offset)
	f.U8(&l.ID)
	f.String(&l.Section)
	f.Do(readUUID(&l.GUID))
	return f.Err()
}

func (l *GraphLevel) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.String(l.Name)
	f.Value(&l.Offset)
	f.U8(l.ID)
	f.String(l.Section)
	f.Do(writeUUID(l.GUID))
	return f.Err()
}

func (l *GraphLevel) Import(s *ltx.Section) error {
	f := s.Fields()
	f.String("name", &l.Name)
	geom.ImportVector(f, "offset", &l.Offset)
	f.U8("id", &l.ID)
	f.String("section", &l.Section)
	f.Do(importUUID("guid", &l.GUID))
	return f.Err()
}

func (l *GraphLevel) Export(s *ltx.Section) {
	s.Set("name", l.Name).
		Set("section", l.Section).
		Set("offset", l.Offset.String()).
		SetUint("id", uint64(l.ID)).
		Set("guid", l.GUID.String())
}

// GraphVertex is a node of the game graph.
type GraphVertex struct {
	LevelPoint       geom.Vector3d
	GamePoint        geom.Vector3d
	LevelID          uint8
	LevelVertexID    uint32 // u24 on disk
	VertexType       [4]uint8
	EdgeOffset       uint32
	LevelPointOffset uint32
	EdgeCount        uint8
	LevelPointCount  uint8
}

func (v *GraphVertex) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.Value(&v.LevelPoint)
	f.Value(&v.GamePoint)
	f.U8(&v.LevelID)
	f.Do(func(r *chunk.Reader) (err error) {
		v.LevelVertexID, err = r.ReadU24()
		return err
	})
	for i := range v.VertexType {
		f.U8(&v.VertexType[i])
	}
	f.U32(&v.EdgeOffset)
	f.U32(&v.LevelPointOffset)
	f.U8(&v.EdgeCount)
	f.U8(&v.LevelPointCount)
	return f.Err()
}

func (v *GraphVertex) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.Value(&v.LevelPoint)
	f.Value(&v.GamePoint)
	f.U8(v.LevelID)
	f.Do(func(w *chunk.Writer) error { return w.WriteU24(v.LevelVertexID) })
	for _, b := range v.VertexType {
		f.U8(b)
	}
	f.U32(v.EdgeOffset)
	f.U32(v.LevelPointOffset)
	f.U8(v.EdgeCount)
	f.U8(v.LevelPointCount)
	return f.Err()
}

func (v *GraphVertex) Import(s *ltx.Section) error {
	f := s.Fields()
	geom.ImportVector(f, "level_point", &v.LevelPoint)
	geom.ImportVector(f, "game_point", &v.GamePoint)
	f.U8("level_id", &v.LevelID)
	f.U32("level_vertex_id", &v.LevelVertexID)
	f.Do(func(s *ltx.Section) error {
		text, err := s.String("vertex_type")
		if err != nil {
			return err
		}
		parts := strings.Split(text, ",")
		if len(parts) != len(v.VertexType) {
			return chunk.Errorf(chunk.ErrParse, "ltx section [%s]: vertex_type %q needs 4 values", s.Name, text)
		}
		for i, part := range parts {
			n, err := strconv.ParseUint(strings.TrimSpace(part), 10, 8)
			if err != nil {
				return chunk.Errorf(chunk.ErrParse, "ltx section [%s]: vertex_type %q: %v", s.Name, text, err)
			}
			v.VertexType[i] = uint8(n)
		}
		return nil
	})
	f.U32("edge_offset", &v.EdgeOffset)
	f.U32("level_point_offset", &v.LevelPointOffset)
	f.U8("edge_count", &v.EdgeCount)
	f.U8("level_point_count", &v.LevelPointCount)
	return f.Err()
}

func (v *GraphVertex) Export(s *ltx.Section) {
	types := make([]string, len(v.VertexType))
	for i, b := range v.VertexType {
		types[i] = strconv.Itoa(int(b))
	}
	s.Set("level_point", v.LevelPoint.String()).
		Set("game_point", v.GamePoint.String()).
		SetUint("level_id", uint64(v.LevelID)).
		SetUint("level_vertex_id", uint64(v.LevelVertexID)).
		SetUint("edge_offset", uint64(v.EdgeOffset)).
		SetUint("level_point_offset", uint64(v.LevelPointOffset)).
		SetUint("edge_count", uint64(v.EdgeCount)).
		SetUint("level_point_count", uint64(v.LevelPointCount)).
		Set("vertex_type", strings.Join(types, ","))
}

// GraphEdge connects two game vertices.
type GraphEdge struct {
	GameVertexID uint16
	Distance     float32
}

func (e *GraphEdge) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.U16(&e.GameVertexID)
	f.F32(&e.Distance)
	return f.Err()
}

func (e *GraphEdge) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.U16(e.GameVertexID)
	f.F32(e.Distance)
	return f.Err()
}

func (e *GraphEdge) Import(s *ltx.Section) error {
	f := s.Fields()
	f.U16("game_vertex_id", &e.GameVertexID)
	f.F32("distance", &e.Distance)
	return f.Err()
}

func (e *GraphEdge) Export(s *ltx.Section) {
	s.SetUint("game_vertex_id", uint64(e.GameVertexID)).
		SetF32("distance", e.Distance)
}

// GraphLevelPoint maps a game vertex to a level vertex.
type GraphLevelPoint struct {
	Position      geom.Vector3d
	LevelVertexID uint32
	Distance      float32
}

func (p *GraphLevelPoint) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.Value(&p.Position)
	f.U32(&p.LevelVertexID)
	f.F32(&p.Distance)
	return f.Err()
}

func (p *GraphLevelPoint) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.Value(&p.Position)
	f.U32(p.LevelVertexID)
	f.F32(p.Distance)
	return f.Err()
}

func (p *GraphLevelPoint) Import(s *ltx.Section) error {
	f := s.Fields()
	geom.ImportVector(f, "position", &p.Position)
	f.U32("level_vertex_id", &p.LevelVertexID)
	f.F32("distance", &p.Distance)
	return f.Err()
}

func (p *GraphLevelPoint) Export(s *ltx.Section) {
	s.Set("position", p.Position.String()).
		SetUint("level_vertex_id", uint64(p.LevelVertexID)).
		SetF32("distance", p.Distance)
}

// GraphCrossTable links level vertices of one level to game vertices.
// The table body is kept opaque.
type GraphCrossTable struct {
	Version       uint32
	NodesCount    uint32
	VerticesCount uint32
	LevelGUID     uuid.UUID
	GameGUID      uuid.UUID
	Data          []byte
}

// Read consumes the rest of r, which must be one size-packed record.
func (t *GraphCrossTable) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.U32(&t.Version)
	f.U32(&t.NodesCount)
	f.U32(&t.VerticesCount)
	f.Do(readUUID(&t.LevelGUID))
	f.Do(readUUID(&t.GameGUID))
	if err := f.Err(); err != nil {
		return err
	}
	t.Data = r.ReadRemaining()
	return nil
}

func (t *GraphCrossTable) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.U32(t.Version)
	f.U32(t.NodesCount)
	f.U32(t.VerticesCount)
	f.Do(writeUUID(t.LevelGUID))
	f.Do(writeUUID(t.GameGUID))
	f.Do(func(w *chunk.Writer) error {
		_, err := w.Write(t.Data)
		return err
	})
	return f.Err()
}

// ReadCrossTables decodes size-packed cross tables until r ends.
func ReadCrossTables(r *chunk.Reader) ([]GraphCrossTable, error) {
	records, err := r.ReadSizePacked()
	if err != nil {
		return nil, err
	}
	tables := make([]GraphCrossTable, len(records))
	for i, c := range records {
		if err := tables[i].Read(c.Reader()); err != nil {
			return nil, err
		}
	}
	return tables, nil
}

// WriteCrossTables encodes each table prefixed by its size including the
// size field itself.
func WriteCrossTables(w *chunk.Writer, tables []GraphCrossTable) error {
	for i := range tables {
		body := chunk.NewWriter(w.Order())
		if err := tables[i].Write(body); err != nil {
			return err
		}
		if err := w.WriteU32(uint32(body.BytesWritten() + 4)); err != nil {
			return err
		}
		if _, err := w.Write(body.FlushRawIntoBuffer()); err != nil {
			return err
		}
	}
	return nil
}

// Graphs is chunk 4: the game graph header followed by its levels,
// vertices, edges, level points and cross tables.
type Graphs struct {
	Header      GraphHeader
	Levels      []GraphLevel
	Vertices    []GraphVertex
	Edges       []GraphEdge
	Points      []GraphLevelPoint
	CrossTables []GraphCrossTable
}

func (g *Graphs) Read(r *chunk.Reader) error {
	if err := g.Header.Read(r); err != nil {
		return err
	}
	var err error
	if g.Levels, err = readN[GraphLevel](r, int(g.Header.LevelsCount)); err != nil {
		return err
	}
	if g.Vertices, err = readN[GraphVertex](r, int(g.Header.VerticesCount)); err != nil {
		return err
	}
	if g.Edges, err = readN[GraphEdge](r, int(g.Header.EdgesCount)); err != nil {
		return err
	}
	if g.Points, err = readN[GraphLevelPoint](r, int(g.Header.PointsCount)); err != nil {
		return err
	}
	if g.CrossTables, err = ReadCrossTables(r); err != nil {
		return err
	}
	return r.EnsureEnded("graphs")
}

func (g *Graphs) Write(w *chunk.Writer) error {
	if err := g.checkCounts(); err != nil {
		return err
	}
	f := w.Fields()
	f.Value(&g.Header)
	for i := range g.Levels {
		f.Value(&g.Levels[i])
	}
	for i := range g.Vertices {
		f.Value(&g.Vertices[i])
	}
	for i := range g.Edges {
		f.Value(&g.Edges[i])
	}
	for i := range g.Points {
		f.Value(&g.Points[i])
	}
	f.Do(func(w *chunk.Writer) error { return WriteCrossTables(w, g.CrossTables) })
	return f.Err()
}

func (g *Graphs) checkCounts() error {
	h := g.Header
	for _, err := range []error{
		chunk.Expect("graph levels count", int(h.LevelsCount), len(g.Levels)),
		chunk.Expect("graph vertices count", int(h.VerticesCount), len(g.Vertices)),
		chunk.Expect("graph edges count", int(h.EdgesCount), len(g.Edges)),
		chunk.Expect("graph points count", int(h.PointsCount), len(g.Points)),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

// readN reads exactly n consecutive values.
func readN[T any, P interface {
	*T
	chunk.Codec
}](r *chunk.Reader, n int) ([]T, error) {
	if n > r.Remaining() {
		return nil, &chunk.MismatchError{What: "graph record count", Expected: r.Remaining(), Actual: n}
	}
	out := make([]T, n)
	for i := range out {
		if err := P(&out[i]).Read(r); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// GraphFiles groups the LTX documents of a graph export. Cross tables
// are stored separately as raw size-packed records.
type GraphFiles struct {
	Header   *ltx.Ltx
	Levels   *ltx.Ltx
	Vertices *ltx.Ltx
	Edges    *ltx.Ltx
	Points   *ltx.Ltx
}

// Import rebuilds the graph from its documents and the raw cross table
// bytes. Record sections are named by their index.
func (g *Graphs) Import(files GraphFiles, crossTables *chunk.Reader) error {
	header, err := files.Header.RequireSection("header")
	if err != nil {
		return err
	}
	if err := g.Header.Import(header); err != nil {
		return err
	}
	if g.Levels, err = importN[GraphLevel](files.Levels, int(g.Header.LevelsCount)); err != nil {
		return err
	}
	if g.Vertices, err = importN[GraphVertex](files.Vertices, int(g.Header.VerticesCount)); err != nil {
		return err
	}
	if g.Edges, err = importN[GraphEdge](files.Edges, int(g.Header.EdgesCount)); err != nil {
		return err
	}
	if g.Points, err = importN[GraphLevelPoint](files.Points, int(g.Header.PointsCount)); err != nil {
		return err
	}
	g.CrossTables, err = ReadCrossTables(crossTables)
	return err
}

// Export splits the graph into its documents and writes the cross tables
// to w.
func (g *Graphs) Export(w *chunk.Writer) (GraphFiles, error) {
	files := GraphFiles{
		Header:   ltx.New(),
		Levels:   ltx.New(),
		Vertices: ltx.New(),
		Edges:    ltx.New(),
		Points:   ltx.New(),
	}
	g.Header.Export(files.Header.WithSection("header"))
	for i := range g.Levels {
		g.Levels[i].Export(files.Levels.WithSection(strconv.Itoa(i)))
	}
	for i := range g.Vertices {
		g.Vertices[i].Export(files.Vertices.WithSection(strconv.Itoa(i)))
	}
	for i := range g.Edges {
		g.Edges[i].Export(files.Edges.WithSection(strconv.Itoa(i)))
	}
	for i := range g.Points {
		g.Points[i].Export(files.Points.WithSection(strconv.Itoa(i)))
	}
	return files, WriteCrossTables(w, g.CrossTables)
}

type importer interface {
	Import(s *ltx.Section) error
}

func importN[T any, P interface {
	*T
	importer
}](l *ltx.Ltx, n int) ([]T, error) {
	out := make([]T, n)
	for i := range out {
		s, err := l.RequireSection(strconv.Itoa(i))
		if err != nil {
			return nil, err
		}
		if err := P(&out[i]).Import(s); err != nil {
			return nil, err
		}
	}
	return out, nil
}
