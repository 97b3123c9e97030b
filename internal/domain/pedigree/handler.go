package pedigree

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta las rutas de lectura del motor. mateLimiter (opcional)
// envuelve el endpoint de ranking, el más caro.
func RegisterRoutes(r chi.Router, svc *Service, mateLimiter func(http.Handler) http.Handler) {
	r.Get("/snapshot", snapshotHandler(svc))

	r.Route("/animals/{animalID}", func(ar chi.Router) {
		ar.Get("/genealogy", genealogyHandler(svc))
		ar.Get("/descendants", descendantsHandler(svc))
		ar.Get("/inbreeding", inbreedingHandler(svc))

		if mateLimiter != nil {
			ar.With(mateLimiter).Get("/compatible-mates", compatibleMatesHandler(svc))
		} else {
			ar.Get("/compatible-mates", compatibleMatesHandler(svc))
		}
	})

	r.Post("/matings/simulate", simulateMatingHandler(svc))
}

// RegisterAdminRoutes expone el refresh manual del snapshot.
func RegisterAdminRoutes(r chi.Router, svc *Service) {
	r.Post("/admin/refresh", refreshHandler(svc))
}

type snapshotResponse struct {
	ID       string            `json:"id"`
	LoadedAt time.Time         `json:"loaded_at"`
	Animals  int               `json:"animals"`
	CutEdges []cutEdgeResponse `json:"cut_edges"`
}

type cutEdgeResponse struct {
	ChildID  string `json:"child_id"`
	ParentID string `json:"parent_id"`
	Role     string `json:"role"`
}

type ancestorResponse struct {
	ID                string         `json:"id"`
	Generation        int            `json:"generation"`
	Paths             int            `json:"paths"`
	PathsByGeneration map[string]int `json:"paths_by_generation"`
	Recorded          bool           `json:"recorded"`
}

type genealogyResponse struct {
	AnimalID      string             `json:"animal_id"`
	SearchedDepth int                `json:"searched_depth"`
	Ancestors     []ancestorResponse `json:"ancestors"`
}

type descendantResponse struct {
	ID         string `json:"id"`
	Generation int    `json:"generation"`
}

type descendantsResponse struct {
	AnimalID    string               `json:"animal_id"`
	Descendants []descendantResponse `json:"descendants"`
}

type contributionResponse struct {
	AncestorID         string  `json:"ancestor_id"`
	SireGenerations    int     `json:"sire_generations"`
	DamGenerations     int     `json:"dam_generations"`
	PathPairs          int     `json:"path_pairs"`
	AncestorInbreeding float64 `json:"ancestor_inbreeding"`
	Value              float64 `json:"value"`
}

type inbreedingResponse struct {
	Coefficient          float64                `json:"coefficient"`
	Percent              float64                `json:"percent"`
	SearchedDepth        int                    `json:"searched_depth"`
	InsufficientPedigree bool                   `json:"insufficient_pedigree"`
	Contributions        []contributionResponse `json:"contributions"`
}

type animalInbreedingResponse struct {
	AnimalID string `json:"animal_id"`
	inbreedingResponse
}

type simulateMatingRequest struct {
	SireID string `json:"sire_id"`
	DamID  string `json:"dam_id"`
}

type matingVerdictResponse struct {
	SireID         string             `json:"sire_id"`
	DamID          string             `json:"dam_id"`
	Inbreeding     inbreedingResponse `json:"inbreeding"`
	Risk           RiskTier           `json:"risk"`
	Recommendation Recommendation     `json:"recommendation"`
	Advice         string             `json:"advice"`
	SireInbreeding float64            `json:"sire_inbreeding"`
	DamInbreeding  float64            `json:"dam_inbreeding"`
	Relationship   float64            `json:"relationship"`
}

type candidateResponse struct {
	Rank                 int            `json:"rank"`
	MaleID               string         `json:"male_id"`
	Coefficient          float64        `json:"coefficient"`
	Percent              float64        `json:"percent"`
	Risk                 RiskTier       `json:"risk"`
	GeneticPotential     *float64       `json:"genetic_potential,omitempty"`
	InsufficientPedigree bool           `json:"insufficient_pedigree"`
	Relationship         float64        `json:"relationship"`
	Recommendation       Recommendation `json:"recommendation"`
	Advice               string         `json:"advice"`
}

type compatibleMatesResponse struct {
	FemaleID       string              `json:"female_id"`
	MaxCoefficient float64             `json:"max_coefficient"`
	Evaluated      int                 `json:"evaluated"`
	Candidates     []candidateResponse `json:"candidates"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// snapshotHandler godoc
// @Summary     Snapshot vigente
// @Tags        pedigree
// @Produce     json
// @Success     200 {object} snapshotResponse
// @Failure     503 {object} errorResponse
// @Router      /snapshot [get]
func snapshotHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, err := svc.Snapshot()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toSnapshotResponse(info))
	}
}

// refreshHandler godoc
// @Summary     Recarga el snapshot desde el source
// @Tags        admin
// @Produce     json
// @Success     200 {object} snapshotResponse
// @Failure     500 {object} errorResponse
// @Router      /admin/refresh [post]
func refreshHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, err := svc.Reload(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toSnapshotResponse(info))
	}
}

// genealogyHandler godoc
// @Summary     Ancestros de un animal
// @Tags        pedigree
// @Produce     json
// @Param       animalID path  string true  "Animal ID"
// @Param       depth    query int    false "Generaciones (se acota al máximo configurado)"
// @Success     200 {object} genealogyResponse
// @Failure     400 {object} errorResponse
// @Failure     404 {object} errorResponse
// @Router      /animals/{animalID}/genealogy [get]
func genealogyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "animalID")

		depth, err := queryInt(r, "depth", svc.Options().MaxDepth)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		g, err := svc.AnalyzeGenealogy(r.Context(), id, depth)
		if err != nil {
			writeError(w, err)
			return
		}

		out := genealogyResponse{
			AnimalID:      g.AnimalID,
			SearchedDepth: g.SearchedDepth,
			Ancestors:     make([]ancestorResponse, 0, len(g.Ancestors)),
		}
		for _, a := range g.Ancestors {
			byGen := make(map[string]int, len(a.PathsByGeneration))
			for gen, n := range a.PathsByGeneration {
				byGen[strconv.Itoa(gen)] = n
			}
			out.Ancestors = append(out.Ancestors, ancestorResponse{
				ID:                a.ID,
				Generation:        a.Generation,
				Paths:             a.Paths,
				PathsByGeneration: byGen,
				Recorded:          a.Recorded,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// descendantsHandler godoc
// @Summary     Descendientes de un animal
// @Tags        pedigree
// @Produce     json
// @Param       animalID path  string true  "Animal ID"
// @Param       depth    query int    false "Generaciones (default configurado)"
// @Success     200 {object} descendantsResponse
// @Failure     400 {object} errorResponse
// @Failure     404 {object} errorResponse
// @Router      /animals/{animalID}/descendants [get]
func descendantsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "animalID")

		depth, err := queryInt(r, "depth", 0)
		if err != nil || depth < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "depth must be a non-negative integer"})
			return
		}

		items, err := svc.Descendants(r.Context(), id, depth)
		if err != nil {
			writeError(w, err)
			return
		}

		out := descendantsResponse{AnimalID: id, Descendants: make([]descendantResponse, 0, len(items))}
		for _, d := range items {
			out.Descendants = append(out.Descendants, descendantResponse{ID: d.ID, Generation: d.Generation})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// inbreedingHandler godoc
// @Summary     Coeficiente de consanguinidad propio
// @Tags        pedigree
// @Produce     json
// @Param       animalID path string true "Animal ID"
// @Success     200 {object} animalInbreedingResponse
// @Failure     404 {object} errorResponse
// @Router      /animals/{animalID}/inbreeding [get]
func inbreedingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "animalID")

		res, err := svc.InbreedingOf(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, animalInbreedingResponse{AnimalID: id, inbreedingResponse: toInbreedingResponse(res)})
	}
}

// simulateMatingHandler godoc
// @Summary     Simula un cruce
// @Tags        matings
// @Accept      json
// @Produce     json
// @Param       body body simulateMatingRequest true "Par sire x dam"
// @Success     200 {object} matingVerdictResponse
// @Failure     400 {object} errorResponse
// @Failure     404 {object} errorResponse
// @Router      /matings/simulate [post]
func simulateMatingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req simulateMatingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
			return
		}
		if strings.TrimSpace(req.SireID) == "" || strings.TrimSpace(req.DamID) == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "sire_id and dam_id are required"})
			return
		}

		v, err := svc.SimulateMating(r.Context(), strings.TrimSpace(req.SireID), strings.TrimSpace(req.DamID))
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, matingVerdictResponse{
			SireID:         v.SireID,
			DamID:          v.DamID,
			Inbreeding:     toInbreedingResponse(v.Result),
			Risk:           v.Risk,
			Recommendation: v.Recommendation,
			Advice:         v.Advice,
			SireInbreeding: v.SireInbreeding,
			DamInbreeding:  v.DamInbreeding,
			Relationship:   v.Relationship,
		})
	}
}

// compatibleMatesHandler godoc
// @Summary     Machos compatibles para una hembra
// @Tags        matings
// @Produce     json
// @Param       animalID        path  string true  "Female ID"
// @Param       max_coefficient query number false "Coeficiente máximo aceptado, fracción en [0,1]"
// @Param       limit           query int    false "Máximo de candidatos (0 = todos)"
// @Param       pool            query string false "Ids de machos separados por coma (ausente o vacío = todos)"
// @Success     200 {object} compatibleMatesResponse
// @Failure     400 {object} errorResponse
// @Failure     404 {object} errorResponse
// @Failure     429 {object} errorResponse
// @Router      /animals/{animalID}/compatible-mates [get]
func compatibleMatesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "animalID")

		maxCoef := -1.0
		if raw := strings.TrimSpace(r.URL.Query().Get("max_coefficient")); raw != "" {
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil || f < 0 || f > 1 {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "max_coefficient must be a number within [0, 1]"})
				return
			}
			maxCoef = f
		}

		limit, err := queryInt(r, "limit", 0)
		if err != nil || limit < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a non-negative integer"})
			return
		}

		// pool ausente o vacío = todos los machos del snapshot
		var pool []string
		for _, v := range r.URL.Query()["pool"] {
			for _, p := range strings.Split(v, ",") {
				if p = strings.TrimSpace(p); p != "" {
					pool = append(pool, p)
				}
			}
		}

		ranking, err := svc.RankPool(r.Context(), id, maxCoef, pool)
		if err != nil {
			writeError(w, err)
			return
		}

		top := ranking.Top(limit)
		out := compatibleMatesResponse{
			FemaleID:       ranking.FemaleID,
			MaxCoefficient: ranking.MaxCoefficient,
			Evaluated:      ranking.Evaluated,
			Candidates:     make([]candidateResponse, 0, len(top)),
		}
		for _, c := range top {
			out.Candidates = append(out.Candidates, candidateResponse{
				Rank:                 c.Rank,
				MaleID:               c.MaleID,
				Coefficient:          c.Coefficient,
				Percent:              c.Coefficient * 100,
				Risk:                 c.Risk,
				GeneticPotential:     c.GeneticPotential,
				InsufficientPedigree: c.InsufficientPedigree,
				Relationship:         c.Relationship,
				Recommendation:       c.Recommendation,
				Advice:               c.Advice,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func toSnapshotResponse(info SnapshotInfo) snapshotResponse {
	out := snapshotResponse{
		ID:       info.ID,
		LoadedAt: info.LoadedAt,
		Animals:  info.Animals,
		CutEdges: make([]cutEdgeResponse, 0, len(info.CutEdges)),
	}
	for _, e := range info.CutEdges {
		out.CutEdges = append(out.CutEdges, cutEdgeResponse{ChildID: e.ChildID, ParentID: e.ParentID, Role: string(e.Role)})
	}
	return out
}

func toInbreedingResponse(res InbreedingResult) inbreedingResponse {
	out := inbreedingResponse{
		Coefficient:          res.Coefficient,
		Percent:              res.Percent(),
		SearchedDepth:        res.SearchedDepth,
		InsufficientPedigree: res.InsufficientPedigree,
		Contributions:        make([]contributionResponse, 0, len(res.Contributions)),
	}
	for _, c := range res.Contributions {
		out.Contributions = append(out.Contributions, contributionResponse{
			AncestorID:         c.AncestorID,
			SireGenerations:    c.SireGenerations,
			DamGenerations:     c.DamGenerations,
			PathPairs:          c.PathPairs,
			AncestorInbreeding: c.AncestorInbreeding,
			Value:              c.Value,
		})
	}
	return out
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(key + " must be an integer")
	}
	return n, nil
}

// statusFor traduce errores del motor a HTTP.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrUnknownAnimal):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidPair), errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrNoSnapshot):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
