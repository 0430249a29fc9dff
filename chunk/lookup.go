package chunk

import "fmt"

// FindRequired returns the first chunk with id.
func FindRequired(chunks []Chunk, id uint32) (Chunk, error) {
	if c, ok := FindOptional(chunks, id); ok {
		return c, nil
	}
	return Chunk{}, &NotFoundError{What: fmt.Sprintf("chunk %d", id), IDs: []uint32{id}}
}

// FindOptional returns the first chunk with id and whether it exists.
func FindOptional(chunks []Chunk, id uint32) (Chunk, bool) {
	for _, c := range chunks {
		if c.ID == id {
			return c, true
		}
	}
	return Chunk{}, false
}

// FindOneOfRequired returns the first chunk matching any of ids, in the
// order the ids are given, together with the matched id. It is used where
// a record moved between format versions.
func FindOneOfRequired(chunks []Chunk, ids ...uint32) (uint32, Chunk, error) {
	if id, c, ok := FindOneOfOptional(chunks, ids...); ok {
		return id, c, nil
	}
	return 0, Chunk{}, &NotFoundError{What: "one of chunks", IDs: ids}
}

// FindOneOfOptional is FindOneOfRequired without the error.
func FindOneOfOptional(chunks []Chunk, ids ...uint32) (uint32, Chunk, bool) {
	for _, id := range ids {
		if c, ok := FindOptional(chunks, id); ok {
			return id, c, true
		}
	}
	return 0, Chunk{}, false
}

// RequireIDs checks that chunks hold exactly the given ids, reporting the
// first missing id as a *NotFoundError and extra records as a
// *MismatchError.
func RequireIDs(what string, chunks []Chunk, ids ...uint32) error {
	for _, id := range ids {
		if _, ok := FindOptional(chunks, id); !ok {
			return &NotFoundError{What: fmt.Sprintf("%s chunk %d", what, id), IDs: []uint32{id}}
		}
	}
	return Expect(what+" chunks count", len(ids), len(chunks))
}
