package pedigree

// Simulator orquesta calculator + classifier para un par.
type Simulator struct {
	calc       *Calculator
	classifier Classifier
	enforceSex bool
}

func NewSimulator(calc *Calculator, classifier Classifier, enforceSex bool) *Simulator {
	return &Simulator{calc: calc, classifier: classifier, enforceSex: enforceSex}
}

// Simulate devuelve siempre el veredicto, aunque el riesgo sea alto:
// filtrar es decisión del caller o del ranker.
func (s *Simulator) Simulate(sireID, damID string) (MatingVerdict, error) {
	sire, err := s.calc.store.Lookup(sireID)
	if err != nil {
		return MatingVerdict{}, err
	}
	dam, err := s.calc.store.Lookup(damID)
	if err != nil {
		return MatingVerdict{}, err
	}
	if sire.ID == dam.ID {
		return MatingVerdict{}, invalidPair(sire.ID, "sire and dam are the same animal")
	}
	if s.enforceSex {
		if sire.Sex != SexMale {
			return MatingVerdict{}, invalidPair(sire.ID, "sire must be male")
		}
		if dam.Sex != SexFemale {
			return MatingVerdict{}, invalidPair(dam.ID, "dam must be female")
		}
	}

	res, err := s.calc.Coefficient(sire.ID, dam.ID)
	if err != nil {
		return MatingVerdict{}, err
	}
	sireF, err := s.calc.InbreedingOf(sire.ID)
	if err != nil {
		return MatingVerdict{}, err
	}
	damF, err := s.calc.InbreedingOf(dam.ID)
	if err != nil {
		return MatingVerdict{}, err
	}

	tier := s.classifier.Classify(res.Coefficient)
	rec, advice := Recommend(tier)

	return MatingVerdict{
		SireID:         sire.ID,
		DamID:          dam.ID,
		Result:         res,
		Risk:           tier,
		Recommendation: rec,
		Advice:         advice,
		SireInbreeding: sireF.Coefficient,
		DamInbreeding:  damF.Coefficient,
		Relationship:   2 * res.Coefficient,
	}, nil
}
