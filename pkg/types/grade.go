package types

// Grade is a validator letter grade.
type Grade string

// Recognized grades. The gauge value of each is its position in Grades,
// starting at 1.
const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeB     Grade = "B"
	GradeBPlus Grade = "B+"
	GradeC     Grade = "C"
	GradeD     Grade = "D"
	GradeF     Grade = "F"
)

// Grades lists the recognized grades in gauge-value order.
var Grades = []Grade{GradeAPlus, GradeA, GradeB, GradeBPlus, GradeC, GradeD, GradeF}

var gradeValues = func() map[Grade]int {
	m := make(map[Grade]int, len(Grades))
	for i, g := range Grades {
		m[g] = i + 1
	}
	return m
}()

// ParseGrade returns the Grade for s and whether it is recognized.
// Matching is exact: callers trim whitespace first.
func ParseGrade(s string) (Grade, bool) {
	g := Grade(s)
	_, ok := gradeValues[g]
	return g, ok
}

// Value returns the gauge value for g, or 0 if g is not recognized.
func (g Grade) Value() int {
	return gradeValues[g]
}
