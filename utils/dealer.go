package utils

// Dealer is a worklist that hands out every key at most once.
// Keys already dealt are silently ignored by Needs.
type Dealer[K comparable] struct {
	needs []K
	done  map[K]struct{}
}

// NextNeeds pops the next pending key and marks it done.
func (d *Dealer[K]) NextNeeds() (key K, ok bool) {
	for len(d.needs) > 0 {
		key = d.needs[len(d.needs)-1]
		d.needs = d.needs[:len(d.needs)-1]

		if _, exists := d.done[key]; !exists {
			d.Done(key)

			return key, true
		}
	}

	var zero K
	return zero, false
}

func (d *Dealer[K]) Needs(keys ...K) {
	for _, key := range keys {
		if _, exists := d.done[key]; !exists {
			d.needs = append(d.needs, key)
		}
	}
}

func (d *Dealer[K]) Done(key K) {
	if d.done == nil {
		d.done = make(map[K]struct{})
	}

	d.done[key] = struct{}{}
}

// Dealt reports whether the key was already handed out or marked done.
func (d *Dealer[K]) Dealt(key K) bool {
	_, ok := d.done[key]
	return ok
}
