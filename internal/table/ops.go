package table

// LeftJoin joins right's columns onto left by the given key column. Every
// left row appears exactly once in the result, so absent related data yields
// nil cells rather than dropped rows. The right side is expected to be unique
// per key (aggregation outputs are); when it is not, the first match wins.
// Rows whose key is nil on either side match nothing.
func LeftJoin(left, right *Table, key string) *Table {
	extra := make([]string, 0, len(right.Columns))
	for _, c := range right.Columns {
		if c == key || left.HasColumn(c) {
			continue
		}
		extra = append(extra, c)
	}

	idx := make(map[string]Record, right.Len())
	for _, r := range right.Rows {
		k, ok := KeyString(r[key])
		if !ok {
			continue
		}
		if _, seen := idx[k]; !seen {
			idx[k] = r
		}
	}

	out := New(append(append([]string{}, left.Columns...), extra...)...)
	out.Rows = make([]Record, 0, left.Len())
	for _, lr := range left.Rows {
		nr := make(Record, len(out.Columns))
		for _, c := range left.Columns {
			nr[c] = lr[c]
		}
		var match Record
		if k, ok := KeyString(lr[key]); ok {
			match = idx[k]
		}
		for _, c := range extra {
			if match != nil {
				nr[c] = match[c]
			} else {
				nr[c] = nil
			}
		}
		out.Rows = append(out.Rows, nr)
	}
	return out
}

// Agg is one aggregation over a source column, producing an output column.
type Agg struct {
	As  string
	col string
	fn  func(vals []any) any
}

// CountDistinct counts distinct non-nil values of col within a group.
func CountDistinct(col, as string) Agg {
	return Agg{As: as, col: col, fn: func(vals []any) any {
		seen := map[string]struct{}{}
		for _, v := range vals {
			if k, ok := KeyString(v); ok {
				seen[k] = struct{}{}
			}
		}
		return int64(len(seen))
	}}
}

// Sum adds the numeric values of col within a group; nil and non-numeric
// cells contribute zero.
func Sum(col, as string) Agg {
	return Agg{As: as, col: col, fn: func(vals []any) any {
		var total float64
		for _, v := range vals {
			if f, ok := AsFloat(v); ok {
				total += f
			}
		}
		return total
	}}
}

// Mean averages the numeric values of col within a group, skipping nil and
// non-numeric cells. A group with no numeric values yields nil, which a later
// FillZero turns into 0 where the report contract requires it.
func Mean(col, as string) Agg {
	return Agg{As: as, col: col, fn: func(vals []any) any {
		var total float64
		var n int
		for _, v := range vals {
			if f, ok := AsFloat(v); ok {
				total += f
				n++
			}
		}
		if n == 0 {
			return nil
		}
		return total / float64(n)
	}}
}

// GroupBy groups rows by the key column and applies each aggregator, yielding
// one row per distinct key in order of first appearance. Rows with a nil key
// are skipped entirely, which is what makes unlinked rows fall out of scoped
// aggregates instead of forming a spurious group. An empty input produces an
// empty table with the full output header.
func GroupBy(t *Table, key string, aggs ...Agg) *Table {
	cols := make([]string, 0, len(aggs)+1)
	cols = append(cols, key)
	for _, a := range aggs {
		cols = append(cols, a.As)
	}
	out := New(cols...)

	type group struct {
		keyVal any
		vals   [][]any
	}
	order := []string{}
	groups := map[string]*group{}

	for _, r := range t.Rows {
		k, ok := KeyString(r[key])
		if !ok {
			continue
		}
		g, seen := groups[k]
		if !seen {
			g = &group{keyVal: r[key], vals: make([][]any, len(aggs))}
			groups[k] = g
			order = append(order, k)
		}
		for i, a := range aggs {
			g.vals[i] = append(g.vals[i], r[a.col])
		}
	}

	out.Rows = make([]Record, 0, len(order))
	for _, k := range order {
		g := groups[k]
		nr := Record{key: g.keyVal}
		for i, a := range aggs {
			nr[a.As] = a.fn(g.vals[i])
		}
		out.Rows = append(out.Rows, nr)
	}
	return out
}
