package phonebook

import "iter"

// Directory maps canonical names to records, preserving insertion order.
// A removal leaves a hole in the order that is compacted once holes outnumber
// live records, keeping every operation O(1) amortized.
// It owns its records and is not safe for concurrent use.
type Directory struct {
	index map[Name]int // position in order
	order []*Record    // nil marks a removed record
	holes int
}

// NewDirectory returns an empty directory.
func NewDirectory() *Directory {
	return &Directory{index: make(map[Name]int)}
}

// Len returns the number of records.
func (d *Directory) Len() int { return len(d.index) }

// Has reports whether name is a key.
func (d *Directory) Has(name Name) bool {
	_, ok := d.index[name]
	return ok
}

// Add inserts r under its name.
func (d *Directory) Add(r *Record) error {
	if d.Has(r.Name) {
		return newError(KindNameExists, string(r.Name))
	}
	d.index[r.Name] = len(d.order)
	d.order = append(d.order, r)
	return nil
}

// Get returns the record stored under name.
func (d *Directory) Get(name Name) (*Record, error) {
	i, ok := d.index[name]
	if !ok {
		return nil, newError(KindContactNotFound, string(name))
	}
	return d.order[i], nil
}

// Remove deletes the record stored under name.
func (d *Directory) Remove(name Name) error {
	i, ok := d.index[name]
	if !ok {
		return newError(KindContactNotFound, string(name))
	}
	delete(d.index, name)
	d.order[i] = nil
	d.holes++
	if d.holes > len(d.index) {
		d.compact()
	}
	return nil
}

// compact drops the holes into a fresh slice, so a running All keeps its view.
func (d *Directory) compact() {
	live := make([]*Record, 0, len(d.index))
	for _, r := range d.order {
		if r != nil {
			d.index[r.Name] = len(live)
			live = append(live, r)
		}
	}
	d.order = live
	d.holes = 0
}

// Clear empties the directory.
func (d *Directory) Clear() {
	clear(d.index)
	d.order = nil
	d.holes = 0
}

// All yields every (name, record) pair in insertion order.
func (d *Directory) All() iter.Seq2[Name, *Record] {
	return func(yield func(Name, *Record) bool) {
		for _, r := range d.order {
			if r == nil {
				continue
			}
			if !yield(r.Name, r) {
				return
			}
		}
	}
}

// Paginate yields consecutive pages of at most size records in insertion order.
// The sequence is lazy, ends after the last page and can be ranged over again.
// Sizes below 1 are treated as 1.
func (d *Directory) Paginate(size int) iter.Seq[[]*Record] {
	size = max(size, 1)
	return func(yield func([]*Record) bool) {
		var page []*Record
		for _, r := range d.All() {
			page = append(page, r)
			if len(page) < size {
				continue
			}
			if !yield(page) {
				return
			}
			page = nil
		}
		if len(page) > 0 {
			yield(page)
		}
	}
}

// PhoneOwner returns the record holding p anywhere in the directory.
func (d *Directory) PhoneOwner(p Phone) (*Record, bool) {
	for _, r := range d.All() {
		if r.HasPhone(p) {
			return r, true
		}
	}
	return nil, false
}
