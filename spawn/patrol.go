package spawn

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/meigma/xrf/chunk"
	"github.com/meigma/xrf/internal/geom"
	"github.com/meigma/xrf/ltx"
)

const (
	patrolsMetaChunkID = 0
	patrolsDataChunkID = 1

	patrolNameChunkID = 0
	patrolDataChunkID = 1

	patrolPointsCountChunkID = 0
	patrolPointsChunkID      = 1
	patrolLinksChunkID       = 2

	pointIndexChunkID = 0
	pointDataChunkID  = 1
)

// PatrolPoint is one waypoint of a patrol path.
type PatrolPoint struct {
	Name          string
	Position      geom.Vector3d
	Flags         uint32
	LevelVertexID uint32
	GameVertexID  uint16
}

func (p *PatrolPoint) Read(r *chunk.Reader) error {
	f := r.Fields()
	f.String(&p.Name)
	f.Value(&p.Position)
	f.U32(&p.Flags)
	f.U32(&p.LevelVertexID)
	f.U16(&p.GameVertexID)
	if err := f.Err(); err != nil {
		return err
	}
	return r.EnsureEnded("patrol point")
}

func (p *PatrolPoint) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.String(p.Name)
	f.Value(&p.Position)
	f.U32(p.Flags)
	f.U32(p.LevelVertexID)
	f.U16(p.GameVertexID)
	return f.Err()
}

func (p *PatrolPoint) Import(s *ltx.Section) error {
	f := s.Fields()
	f.String("name", &p.Name)
	geom.ImportVector(f, "position", &p.Position)
	f.U32("flags", &p.Flags)
	f.U32("level_vertex_id", &p.LevelVertexID)
	f.U16("game_vertex_id", &p.GameVertexID)
	return f.Err()
}

func (p *PatrolPoint) Export(s *ltx.Section) {
	s.Set("name", p.Name).
		SetUint("flags", uint64(p.Flags)).
		Set("position", p.Position.String()).
		SetUint("level_vertex_id", uint64(p.LevelVertexID)).
		SetUint("game_vertex_id", uint64(p.GameVertexID))
}

// PatrolLink lists the weighted edges leaving the point at Index.
type PatrolLink struct {
	Index uint32
	Links []LinkTarget
}

// LinkTarget is one weighted edge.
type LinkTarget struct {
	To     uint32
	Weight float32
}

func (l *PatrolLink) Read(r *chunk.Reader) error {
	var count uint32
	f := r.Fields()
	f.U32(&l.Index)
	f.U32(&count)
	if err := f.Err(); err != nil {
		return err
	}
	if int64(count)*8 > int64(r.Remaining()) {
		return &chunk.MismatchError{What: "patrol link count", Expected: r.Remaining() / 8, Actual: count}
	}
	l.Links = make([]LinkTarget, count)
	for i := range l.Links {
		f.U32(&l.Links[i].To)
		f.F32(&l.Links[i].Weight)
	}
	return f.Err()
}

func (l *PatrolLink) Write(w *chunk.Writer) error {
	f := w.Fields()
	f.U32(l.Index)
	f.U32(uint32(len(l.Links)))
	for _, link := range l.Links {
		f.U32(link.To)
		f.F32(link.Weight)
	}
	return f.Err()
}

func (l *PatrolLink) Import(s *ltx.Section) error {
	var count uint32
	f := s.Fields()
	f.U32("index", &l.Index)
	f.U32("count", &count)
	if err := f.Err(); err != nil {
		return err
	}
	l.Links = make([]LinkTarget, count)
	for i := range l.Links {
		f.U32("from."+strconv.Itoa(i), &l.Links[i].To)
		f.F32("weight."+strconv.Itoa(i), &l.Links[i].Weight)
	}
	return f.Err()
}

func (l *PatrolLink) Export(s *ltx.Section) {
	s.SetUint("index", uint64(l.Index)).
		SetUint("count", uint64(len(l.Links)))
	for i, link := range l.Links {
		s.SetUint("from."+strconv.Itoa(i), uint64(link.To)).
			SetF32("weight."+strconv.Itoa(i), link.Weight)
	}
}

// Patrol is a named path of points and the links between them.
type Patrol struct {
	Name   string
	Points []PatrolPoint
	Links  []PatrolLink
}

// Read decodes the name and data children of one patrol record.
func (p *Patrol) Read(r *chunk.Reader) error {
	nameChunk, err := r.ReadChildByIndex(patrolNameChunkID)
	if err != nil {
		return err
	}
	dataChunk, err := r.ReadChildByIndex(patrolDataChunkID)
	if err != nil {
		return err
	}
	if p.Name, err = nameChunk.Reader().ReadStringChunk(); err != nil {
		return err
	}

	data := dataChunk.Reader()
	countChunk, err := data.ReadChildByIndex(patrolPointsCountChunkID)
	if err != nil {
		return err
	}
	pointsChunk, err := data.ReadChildByIndex(patrolPointsChunkID)
	if err != nil {
		return err
	}
	linksChunk, err := data.ReadChildByIndex(patrolLinksChunkID)
	if err != nil {
		return err
	}

	count, err := countChunk.Reader().ReadU32Chunk()
	if err != nil {
		return err
	}
	if p.Points, err = readPatrolPoints(pointsChunk.Reader()); err != nil {
		return err
	}
	if err := chunk.Expect("patrol points count", int(count), len(p.Points)); err != nil {
		return err
	}

	links := linksChunk.Reader()
	p.Links = nil
	for links.HasData() {
		var link PatrolLink
		if err := link.Read(links); err != nil {
			return err
		}
		p.Links = append(p.Links, link)
	}
	if err := data.EnsureEnded("patrol data"); err != nil {
		return err
	}
	return r.EnsureEnded("patrol")
}

func readPatrolPoints(r *chunk.Reader) ([]PatrolPoint, error) {
	children, err := r.ReadChildren()
	if err != nil {
		return nil, err
	}
	points := make([]PatrolPoint, len(children))
	for i, c := range children {
		pr := c.Reader()
		indexChunk, err := pr.ReadChildByIndex(pointIndexChunkID)
		if err != nil {
			return nil, err
		}
		index, err := indexChunk.Reader().ReadU32Chunk()
		if err != nil {
			return nil, err
		}
		if err := chunk.Expect("patrol point index", uint32(i), index); err != nil {
			return nil, err
		}
		dataChunk, err := pr.ReadChildByIndex(pointDataChunkID)
		if err != nil {
			return nil, err
		}
		if err := points[i].Read(dataChunk.Reader()); err != nil {
			return nil, err
		}
		if err := pr.EnsureEnded("patrol point record"); err != nil {
			return nil, err
		}
	}
	return points, r.EnsureEnded("patrol points")
}

func (p *Patrol) Write(w *chunk.Writer) error {
	err := w.WriteChild(patrolNameChunkID, func(w *chunk.Writer) error {
		return w.WriteString(p.Name)
	})
	if err != nil {
		return err
	}
	return w.WriteChild(patrolDataChunkID, func(w *chunk.Writer) error {
		err := w.WriteChild(patrolPointsCountChunkID, func(w *chunk.Writer) error {
			return w.WriteU32(uint32(len(p.Points)))
		})
		if err != nil {
			return err
		}
		err = w.WriteChild(patrolPointsChunkID, func(w *chunk.Writer) error {
			for i := range p.Points {
				err := w.WriteChild(uint32(i), func(w *chunk.Writer) error {
					err := w.WriteChild(pointIndexChunkID, func(w *chunk.Writer) error {
						return w.WriteU32(uint32(i))
					})
					if err != nil {
						return err
					}
					return w.WriteChild(pointDataChunkID, p.Points[i].Write)
				})
				if err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		return w.WriteChild(patrolLinksChunkID, func(w *chunk.Writer) error {
			for i := range p.Links {
				if err := p.Links[i].Write(w); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

// Patrols is chunk 3: a count record followed by one record per patrol.
type Patrols struct {
	Patrols []Patrol
}

func (p *Patrols) Read(r *chunk.Reader) error {
	metaChunk, err := r.ReadChildByIndex(patrolsMetaChunkID)
	if err != nil {
		return err
	}
	dataChunk, err := r.ReadChildByIndex(patrolsDataChunkID)
	if err != nil {
		return err
	}
	count, err := metaChunk.Reader().ReadU32Chunk()
	if err != nil {
		return err
	}

	data := dataChunk.Reader()
	children, err := data.ReadChildren()
	if err != nil {
		return err
	}
	p.Patrols = make([]Patrol, len(children))
	for i, c := range children {
		if err := p.Patrols[i].Read(c.Reader()); err != nil {
			return fmt.Errorf("patrol %d: %w", i, err)
		}
	}
	if err := chunk.Expect("patrols count", int(count), len(p.Patrols)); err != nil {
		return err
	}
	if err := data.EnsureEnded("patrols data"); err != nil {
		return err
	}
	return r.EnsureEnded("patrols")
}

func (p *Patrols) Write(w *chunk.Writer) error {
	err := w.WriteChild(patrolsMetaChunkID, func(w *chunk.Writer) error {
		return w.WriteU32(uint32(len(p.Patrols)))
	})
	if err != nil {
		return err
	}
	return w.WriteChild(patrolsDataChunkID, func(w *chunk.Writer) error {
		for i := range p.Patrols {
			if err := w.WriteChild(uint32(i), p.Patrols[i].Write); err != nil {
				return err
			}
		}
		return nil
	})
}

// PatrolFiles groups the three documents a patrol export is split into.
type PatrolFiles struct {
	Patrols *ltx.Ltx
	Points  *ltx.Ltx
	Links   *ltx.Ltx
}

// Import rebuilds the patrols from their documents. Patrols follow the
// section order of the patrols document; points are looked up as
// [patrol.point] and links as [patrol.N].
func (p *Patrols) Import(files PatrolFiles) error {
	sections := files.Patrols.Sections()
	p.Patrols = make([]Patrol, len(sections))
	for i, s := range sections {
		patrol := &p.Patrols[i]
		var names string
		var linksCount uint32
		f := s.Fields()
		f.String("name", &patrol.Name)
		f.String("points", &names)
		f.U32("links_count", &linksCount)
		if err := f.Err(); err != nil {
			return err
		}

		patrol.Points = nil
		for name := range strings.SplitSeq(names, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			point, err := files.Points.RequireSection(patrol.Name + "." + name)
			if err != nil {
				return err
			}
			var pp PatrolPoint
			if err := pp.Import(point); err != nil {
				return err
			}
			patrol.Points = append(patrol.Points, pp)
		}

		patrol.Links = make([]PatrolLink, linksCount)
		for j := range patrol.Links {
			link, err := files.Links.RequireSection(patrol.Name + "." + strconv.Itoa(j))
			if err != nil {
				return err
			}
			if err := patrol.Links[j].Import(link); err != nil {
				return err
			}
		}
	}
	return nil
}

// Export splits the patrols into their three documents.
func (p *Patrols) Export() PatrolFiles {
	files := PatrolFiles{Patrols: ltx.New(), Points: ltx.New(), Links: ltx.New()}
	for _, patrol := range p.Patrols {
		names := make([]string, len(patrol.Points))
		for i, point := range patrol.Points {
			names[i] = point.Name
			point.Export(files.Points.WithSection(patrol.Name + "." + point.Name))
		}
		files.Patrols.WithSection(patrol.Name).
			Set("name", patrol.Name).
			Set("points", strings.Join(names, ",")).
			SetUint("links_count", uint64(len(patrol.Links)))
		for i, link := range patrol.Links {
			link.Export(files.Links.WithSection(patrol.Name + "." + strconv.Itoa(i)))
		}
	}
	return files
}
