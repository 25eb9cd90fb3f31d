package stubtree

// Merge folds the three overlay layers into one output tree. Layers are
// given in precedence order: generated (lowest), user-global, project-local
// (highest). Each later layer inserts or replaces entries path by path;
// paths absent from later layers survive untouched, so an overlay can never
// delete a generated file, only shadow it.
//
// The fold is deterministic and idempotent, and associative for this fixed
// precedence order. There are no error conditions: any readable path and
// content pair is acceptable.
func Merge(generated, userGlobal, projectLocal *StubTree) *StubTree {
	out := New()
	for _, layer := range []*StubTree{generated, userGlobal, projectLocal} {
		if layer == nil {
			continue
		}
		for _, rel := range layer.Paths() {
			content, _ := layer.Get(rel)
			out.Insert(rel, content)
		}
	}
	return out
}
