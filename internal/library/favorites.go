package library

import (
	"context"
	"fmt"
	"sync"
)

// Favorites is the set of liked track ids seen so far.
type Favorites struct {
	src Source

	mu  sync.RWMutex
	ids map[string]bool
}

// NewFavorites creates an empty set backed by src.
func NewFavorites(src Source) *Favorites {
	return &Favorites{src: src, ids: make(map[string]bool)}
}

// Refresh checks which of ids are liked. Empty and duplicate ids are ignored.
func (f *Favorites) Refresh(ctx context.Context, ids []string) error {
	seen := make(map[string]bool, len(ids))
	var unique []string
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return nil
	}

	liked, err := f.src.CheckSaved(ctx, unique)
	if err != nil {
		return fmt.Errorf("check saved tracks: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i, id := range unique {
		if i < len(liked) && liked[i] {
			f.ids[id] = true
		} else {
			delete(f.ids, id)
		}
	}
	return nil
}

// IsLiked reports whether id is in the set.
func (f *Favorites) IsLiked(id string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.ids[id]
}

// Len returns the number of liked ids known.
func (f *Favorites) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.ids)
}

// Toggle flips id and returns the new state. The set is restored if Spotify
// rejects the change.
func (f *Favorites) Toggle(ctx context.Context, id string) (bool, error) {
	liked := !f.IsLiked(id)
	if err := f.set(ctx, id, liked); err != nil {
		return !liked, err
	}
	return liked, nil
}

func (f *Favorites) set(ctx context.Context, id string, liked bool) error {
	f.mu.Lock()
	was := f.ids[id]
	f.put(id, liked)
	f.mu.Unlock()

	var err error
	if liked {
		err = f.src.Save(ctx, id)
	} else {
		err = f.src.Unsave(ctx, id)
	}
	if err != nil {
		f.mu.Lock()
		f.put(id, was)
		f.mu.Unlock()
		if liked {
			return fmt.Errorf("save track: %w", err)
		}
		return fmt.Errorf("remove saved track: %w", err)
	}
	return nil
}

func (f *Favorites) put(id string, liked bool) {
	if liked {
		f.ids[id] = true
	} else {
		delete(f.ids, id)
	}
}
