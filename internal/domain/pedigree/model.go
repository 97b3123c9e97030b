package pedigree

import "time"

// Sex define el sexo registrado del animal.
// @Enum male, female, unknown
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = "unknown"
)

// ParseSex acepta los códigos del registro ("M"/"F") y los nombres largos.
func ParseSex(s string) Sex {
	switch s {
	case "M", "m", "male", "macho":
		return SexMale
	case "F", "f", "female", "femea", "fêmea":
		return SexFemale
	default:
		return SexUnknown
	}
}

// Animal es un registro del snapshot de pedigree.
// SireID/DamID vacíos = ancestría desconocida.
type Animal struct {
	ID     string
	Name   string
	Sex    Sex
	Breed  string
	SireID string
	DamID  string

	// Opcionales
	GeneticPotential   *float64
	BaselineInbreeding *float64 // override del coeficiente propio (datos genéticos externos)
}

// clone copia los campos opcionales para que el snapshot no comparta punteros con el llamador.
func (a Animal) clone() Animal {
	a.GeneticPotential = cloneFloat(a.GeneticPotential)
	a.BaselineInbreeding = cloneFloat(a.BaselineInbreeding)
	return a
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// AncestorEntry es un ancestro alcanzado por el tracer.
type AncestorEntry struct {
	ID string

	// Generation es la distancia mínima (1 = padre, 2 = abuelo, ...).
	Generation int
	// Paths es la cantidad de caminos distintos a esa distancia mínima.
	Paths int
	// PathsByGeneration cuenta todos los caminos retenidos, por distancia.
	PathsByGeneration map[int]int

	// Recorded es false cuando el id sólo aparece como padre/madre de otro registro.
	Recorded bool
}

// DescendantEntry es un descendiente con su generación mínima.
type DescendantEntry struct {
	ID         string
	Generation int
}

// Contribution es el aporte de un ancestro común a un coeficiente.
// Agrupa los pares de caminos con el mismo largo a cada lado.
type Contribution struct {
	AncestorID         string
	SireGenerations    int
	DamGenerations     int
	PathPairs          int
	AncestorInbreeding float64
	Value              float64
}

// InbreedingResult es el coeficiente esperado de la cría (fracción en [0,1]).
type InbreedingResult struct {
	Coefficient   float64
	Contributions []Contribution
	SearchedDepth int

	// InsufficientPedigree marca "sin ancestro común dentro de la profundidad buscada":
	// el 0 no es un cero probado.
	InsufficientPedigree bool
}

// Percent devuelve el coeficiente como porcentaje.
func (r InbreedingResult) Percent() float64 { return r.Coefficient * 100 }

type RiskTier string

const (
	RiskLow    RiskTier = "low"
	RiskMedium RiskTier = "medium"
	RiskHigh   RiskTier = "high"
)

type Recommendation string

const (
	RecommendProceed        Recommendation = "proceed"
	RecommendCaution        Recommendation = "proceed_with_caution"
	RecommendNotRecommended Recommendation = "not_recommended"
)

// MatingVerdict es el resultado de simular un cruce.
type MatingVerdict struct {
	SireID string
	DamID  string

	Result         InbreedingResult
	Risk           RiskTier
	Recommendation Recommendation
	Advice         string

	SireInbreeding float64
	DamInbreeding  float64
	// Relationship es el parentesco aditivo sire-dam (2 x coeficiente de la cría).
	Relationship float64
}

// CompatibilityCandidate es un macho evaluado contra una hembra objetivo.
type CompatibilityCandidate struct {
	MaleID               string
	Coefficient          float64
	Risk                 RiskTier
	Rank                 int
	GeneticPotential     *float64
	InsufficientPedigree bool

	// Relationship es el parentesco aditivo macho-hembra (2 x coeficiente de la cría).
	Relationship   float64
	Recommendation Recommendation
	Advice         string
}

// SnapshotInfo describe el snapshot cargado.
type SnapshotInfo struct {
	ID       string
	LoadedAt time.Time
	Animals  int
	CutEdges []CutEdge
}

// CutEdge es un link sire/dam descartado porque cerraba un ciclo.
type CutEdge struct {
	ChildID  string
	ParentID string
	Role     ParentRole
}

type ParentRole string

const (
	RoleSire ParentRole = "sire"
	RoleDam  ParentRole = "dam"
)
