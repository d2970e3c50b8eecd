package participation

import "roster/internal/domain/student"

// MarkAll sets Participated for every roster student. Clearing also drops
// placings; marking keeps them. The result holds exactly one row per roster
// student: students missing from g start from the default row, and rows for
// students outside the roster are not carried over.
func MarkAll(g Grid, roster []student.Student, participated bool) Grid {
	rows := make(map[int64]RowState, len(roster))
	for _, s := range roster {
		r := g.Get(s.ID)
		r.Participated = participated
		if !participated {
			r.Position = NoPosition
		}
		rows[s.ID] = r
	}
	return Grid{rows: rows}
}

// ClearPositions drops every roster student's placing and leaves
// Participated alone. Same roster totality as MarkAll.
func ClearPositions(g Grid, roster []student.Student) Grid {
	rows := make(map[int64]RowState, len(roster))
	for _, s := range roster {
		r := g.Get(s.ID)
		r.Position = NoPosition
		rows[s.ID] = r
	}
	return Grid{rows: rows}
}
