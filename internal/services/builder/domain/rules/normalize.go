package rules

import "strings"

// Normalize returns a copy of ds where every entry has a slug and entries
// without any identifier are dropped. A missing slug is taken from the last
// path segment of the id, else from the slugified name.
func Normalize(ds *Dataset) *Dataset {
	if ds == nil {
		return &Dataset{}
	}
	return &Dataset{
		Classes:     normalizeAll(ds.Classes, func(c *Class) *Entry { return &c.Entry }),
		Ancestries:  normalizeAll(ds.Ancestries, func(a *Ancestry) *Entry { return &a.Entry }),
		Backgrounds: normalizeAll(ds.Backgrounds, func(b *Background) *Entry { return &b.Entry }),
		Traits:      normalizeAll(ds.Traits, func(t *Trait) *Entry { return &t.Entry }),
		Items:       normalizeAll(ds.Items, func(i *Item) *Entry { return &i.Entry }),
		Allies:      normalizeAll(ds.Allies, func(a *Ally) *Entry { return &a.Entry }),
	}
}

// Merge concatenates packs in order. A later entry replaces an earlier one
// with the same slug in place, so pack order decides overrides.
func Merge(packs ...*Dataset) *Dataset {
	out := &Dataset{}
	for _, pack := range packs {
		if pack == nil {
			continue
		}
		out.Classes = mergeAll(out.Classes, pack.Classes)
		out.Ancestries = mergeAll(out.Ancestries, pack.Ancestries)
		out.Backgrounds = mergeAll(out.Backgrounds, pack.Backgrounds)
		out.Traits = mergeAll(out.Traits, pack.Traits)
		out.Items = mergeAll(out.Items, pack.Items)
		out.Allies = mergeAll(out.Allies, pack.Allies)
	}
	return out
}

func normalizeAll[T any](entries []T, entry func(*T) *Entry) []T {
	out := make([]T, 0, len(entries))
	for _, item := range entries {
		e := entry(&item)
		e.Slug = strings.TrimSpace(e.Slug)
		e.ID = strings.TrimSpace(e.ID)
		e.Name = strings.TrimSpace(e.Name)
		if e.Slug == "" {
			e.Slug = deriveSlug(e.ID, e.Name)
		}
		if e.Slug == "" {
			continue
		}
		e.Slug = Slugify(e.Slug)
		out = append(out, item)
	}
	return out
}

func deriveSlug(id, name string) string {
	if id != "" {
		segment := id
		if idx := strings.LastIndexAny(id, "/:"); idx >= 0 && idx < len(id)-1 {
			segment = id[idx+1:]
		}
		if slug := Slugify(segment); slug != "" {
			return slug
		}
	}
	return Slugify(name)
}

func mergeAll[T Identified](existing, incoming []T) []T {
	index := make(map[string]int, len(existing))
	for i, item := range existing {
		index[item.Identity().Key()] = i
	}
	for _, item := range incoming {
		key := item.Identity().Key()
		if i, ok := index[key]; ok {
			existing[i] = item
			continue
		}
		index[key] = len(existing)
		existing = append(existing, item)
	}
	return existing
}
