package solver

import "fmt"

// Sense is the comparison direction of a linear constraint
type Sense int

const (
	LessEqual Sense = iota
	Equal
	GreaterEqual
)

func (s Sense) String() string {
	switch s {
	case LessEqual:
		return "<="
	case Equal:
		return "=="
	case GreaterEqual:
		return ">="
	default:
		return "?"
	}
}

// Term is one coefficient-variable product in a linear expression
type Term struct {
	Var  int
	Coef float64
}

// Constraint is a linear constraint over binary variables
type Constraint struct {
	Terms []Term
	Sense Sense
	RHS   float64
	Label string
}

// Model is a declarative binary linear program: variables, a minimization
// objective and a constraint list. It performs no solving itself and is
// immutable input to a Solver once built.
type Model struct {
	varNames    []string
	objective   []float64
	constraints []Constraint
}

// NewModel creates an empty minimization model
func NewModel() *Model {
	return &Model{}
}

// AddBinary adds a 0/1 decision variable and returns its dense id
func (m *Model) AddBinary(name string) int {
	m.varNames = append(m.varNames, name)
	m.objective = append(m.objective, 0)
	return len(m.varNames) - 1
}

// NumVars returns the number of variables
func (m *Model) NumVars() int { return len(m.varNames) }

// VarName returns the name given to a variable id
func (m *Model) VarName(v int) string {
	if v < 0 || v >= len(m.varNames) {
		return fmt.Sprintf("var#%d", v)
	}
	return m.varNames[v]
}

// SetObjectiveCoef sets the minimization objective coefficient of a variable
func (m *Model) SetObjectiveCoef(v int, coef float64) error {
	if v < 0 || v >= len(m.varNames) {
		return fmt.Errorf("objective references unknown variable %d", v)
	}
	m.objective[v] = coef
	return nil
}

// ObjectiveCoef returns the objective coefficient of a variable
func (m *Model) ObjectiveCoef(v int) float64 { return m.objective[v] }

// AddConstraint appends a linear constraint. Variable ids are validated
// eagerly so a bad id surfaces at build time, not solve time.
func (m *Model) AddConstraint(terms []Term, sense Sense, rhs float64, label string) error {
	for _, t := range terms {
		if t.Var < 0 || t.Var >= len(m.varNames) {
			return fmt.Errorf("constraint %q references unknown variable %d", label, t.Var)
		}
	}
	m.constraints = append(m.constraints, Constraint{Terms: terms, Sense: sense, RHS: rhs, Label: label})
	return nil
}

// Constraints returns the constraint list. Callers must not mutate it.
func (m *Model) Constraints() []Constraint { return m.constraints }
