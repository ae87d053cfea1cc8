package render

// Diff reports which keys a reconciliation created, refreshed and removed.
type Diff[K comparable] struct {
	Enter  []K
	Update []K
	Exit   []K
}

// Empty reports whether nothing was created or removed.
func (d Diff[K]) Empty() bool {
	return len(d.Enter) == 0 && len(d.Exit) == 0
}

// Layer is a group node whose children are tracked by key across redraws.
type Layer[K comparable] struct {
	Group *Node
	keys  []K
	index map[K]*Node
}

func NewLayer[K comparable](group *Node) *Layer[K] {
	return &Layer[K]{Group: group, index: make(map[K]*Node)}
}

// Get returns the child bound to k.
func (l *Layer[K]) Get(k K) (*Node, bool) {
	n, ok := l.index[k]
	return n, ok
}

// Keys returns the bound keys in child order.
func (l *Layer[K]) Keys() []K {
	return append([]K(nil), l.keys...)
}

func (l *Layer[K]) Len() int { return len(l.keys) }

// Reconcile makes the layer's children match target. Keys present only in target
// are created with enter, keys present in both are refreshed with update, keys
// present only in the layer are removed. Children end up in target order; a
// repeated key in target is bound once, at its first position.
func Reconcile[K comparable, D any](l *Layer[K], target []D, key func(D) K, enter func(D) *Node, update func(*Node, D)) Diff[K] {
	var diff Diff[K]

	wanted := make(map[K]struct{}, len(target))
	for _, d := range target {
		wanted[key(d)] = struct{}{}
	}
	for _, k := range l.keys {
		if _, ok := wanted[k]; !ok {
			diff.Exit = append(diff.Exit, k)
			delete(l.index, k)
		}
	}

	children := make([]*Node, 0, len(target))
	keys := make([]K, 0, len(target))
	seen := make(map[K]struct{}, len(target))
	for _, d := range target {
		k := key(d)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if n, ok := l.index[k]; ok {
			update(n, d)
			diff.Update = append(diff.Update, k)
			children = append(children, n)
		} else {
			n := enter(d)
			l.index[k] = n
			diff.Enter = append(diff.Enter, k)
			children = append(children, n)
		}
		keys = append(keys, k)
	}

	l.keys = keys
	l.Group.Children = children
	return diff
}
