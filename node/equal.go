package node

// DeepEqual reports whether a and b are equal under JSON Patch "test"
// semantics: same kind, and for Arrays equal length with pairwise equal
// elements in order; for Objects equal key set with equal values per key
// (order-insensitive); for Numbers numeric equality under arbitrary
// precision; for Strings/Bools/Null plain value equality.
func DeepEqual(a, b *Node) bool {
	ak, bk := a.Kind(), b.Kind()
	if a.IsNull() && b.IsNull() {
		return true
	}
	if ak != bk {
		return false
	}
	switch ak {
	case KindNull:
		return true
	case KindBool:
		av, _ := a.AsBool()
		bv, _ := b.AsBool()
		return av == bv
	case KindNumber:
		av, _ := a.AsBigDecimal()
		bv, _ := b.AsBigDecimal()
		return av.Equal(bv)
	case KindString:
		av, _ := a.AsString()
		bv, _ := b.AsString()
		return av == bv
	case KindArray:
		ae, be := a.Elements(), b.Elements()
		if len(ae) != len(be) {
			return false
		}
		for i := range ae {
			if !DeepEqual(ae[i], be[i]) {
				return false
			}
		}
		return true
	case KindObject:
		ae, be := a.Entries(), b.Entries()
		if len(ae) != len(be) {
			return false
		}
		for _, entry := range ae {
			bv, ok := b.Get(entry.Key)
			if !ok || !DeepEqual(entry.Value, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
