package spawn

import (
	"strconv"

	"github.com/meigma/xrf/chunk"
	"github.com/meigma/xrf/internal/geom"
	"github.com/meigma/xrf/ltx"
)

// ArtefactSpawnPoint is one candidate position for anomaly artefacts.
type ArtefactSpawnPoint struct {
	Position      geom.Vector3d
	LevelVertexID uint32
	Distance      float32
}

func (p *ArtefactSpawnPoint) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.Value(&p.Position)
	f.U32(&p.LevelVertexID)
	f.F32(&p.Distance)
	return f.Err()
}

func (p *ArtefactSpawnPoint) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.Value(&p.Position)
	f.U32(p.LevelVertexID)
	f.F32(p.Distance)
	return f.Err()
}

func (p *ArtefactSpawnPoint) Import(s *ltx.Section) error {
	f := s.Fields()
	geom.ImportVector(f, "position", &p.Position)
	f.U32("level_vertex_id", &p.LevelVertexID)
	f.F32("distance", &p.Distance)
	return f.Err()
}

func (p *ArtefactSpawnPoint) Export(s *ltx.Section) {
	s.SetF32("distance", p.Distance).
		Set("position", p.Position.String()).
		SetUint("level_vertex_id", uint64(p.LevelVertexID))
}

// ArtefactSpawns is chunk 2, a plain counted list of points.
type ArtefactSpawns struct {
	Nodes []ArtefactSpawnPoint
}

func (a *ArtefactSpawns) Read(r *chunk.Reader) error {
	nodes, err := chunk.ReadList[ArtefactSpawnPoint](r)
	if err != nil {
		return err
	}
	a.Nodes = nodes
	return r.EnsureEnded("artefact spawns")
}

func (a *ArtefactSpawns) Write(w *chunk.Writer) error {
	return chunk.WriteList(w, a.Nodes)
}

// Import reads one point per section, in file order.
func (a *ArtefactSpawns) Import(l *ltx.Ltx) error {
	sections := l.Sections()
	a.Nodes = make([]ArtefactSpawnPoint, len(sections))
	for i, s := range sections {
		if err := a.Nodes[i].Import(s); err != nil {
			return err
		}
	}
	return nil
}

func (a *ArtefactSpawns) Export(l *ltx.Ltx) {
	for i := range a.Nodes {
		a.Nodes[i].Export(l.WithSection(strconv.Itoa(i)))
	}
}
