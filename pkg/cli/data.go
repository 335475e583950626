package cli

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mchmarny/ucdash/pkg/dashboard"
	"github.com/mchmarny/ucdash/pkg/data"
	"github.com/mchmarny/ucdash/pkg/score"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func scoresAPIHandler(src data.Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cats, err := score.ParseCategories(r.URL.Query()[categoryParam])
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		list, err := src.LoadUseCases(r.Context())
		if err != nil {
			slog.Error("failed to load use cases", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to load use cases")
			return
		}

		all := score.Score(list)
		writeJSON(w, http.StatusOK, &scoreResult{
			UseCases: score.SortByTotal(score.Filter(all, cats...)),
			Counts:   score.CountByCategory(all),
			Budget:   score.SumBudget(all),
		})
	}
}

func reconciliationAPIHandler(src data.Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := reconcile(r.Context(), src)
		if err != nil {
			slog.Error("failed to reconcile", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to reconcile")
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func allocationAPIHandler(src data.Source, opt dashboard.Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := dashboard.Navigate(dashboard.DefaultState(), dashboard.Dashboard)
		v, err := dashboard.Build(r.Context(), src, state, opt)
		if err != nil {
			slog.Error("failed to build allocation", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to build allocation")
			return
		}
		writeJSON(w, http.StatusOK, v.Allocation)
	}
}

func viewAPIHandler(src data.Source, opt dashboard.Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		if page == "" {
			page = dashboard.DefaultState().Page.Slug()
		}

		state, err := parseState(page, r.URL.Query())
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}

		v, err := dashboard.Build(r.Context(), src, state, opt)
		if err != nil {
			slog.Error("failed to build view", "page", page, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to build view")
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}
