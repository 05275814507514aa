package http

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	apierrors "insiderdash/internal/errors"
	api "insiderdash/pkg/contracts/api/v1"
	"insiderdash/pkg/contracts/domain"
)

// Query parameter names
const (
	paramCompany      = "company"
	paramMovementType = "movement_type"
	paramRole         = "role"
	paramDateFrom     = "date_from"
	paramDateTo       = "date_to"
	paramScope        = "scope"
)

// bindExportRequest reads the filter and scope parameters of r. List
// parameters may be repeated; blank values are ignored.
func bindExportRequest(r *http.Request) api.ExportRequest {
	q := r.URL.Query()
	return api.ExportRequest{
		DatasetQueryRequest: api.DatasetQueryRequest{
			Companies:     listParam(q, paramCompany),
			MovementTypes: listParam(q, paramMovementType),
			Roles:         listParam(q, paramRole),
			DateRangeRequest: api.DateRangeRequest{
				From: strings.TrimSpace(q.Get(paramDateFrom)),
				To:   strings.TrimSpace(q.Get(paramDateTo)),
			},
		},
		Scope: strings.TrimSpace(q.Get(paramScope)),
	}
}

func listParam(q url.Values, name string) []string {
	var out []string
	for _, v := range q[name] {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// toSelection converts a validated request into a filter selection. The
// date range only applies when both bounds are present.
func toSelection(req api.DatasetQueryRequest) (domain.FilterSelection, error) {
	sel := domain.FilterSelection{
		Companies:     req.Companies,
		MovementTypes: req.MovementTypes,
		Roles:         req.Roles,
	}

	if req.From != "" {
		from, err := time.Parse(time.DateOnly, req.From)
		if err != nil {
			return sel, apierrors.ErrValidation(paramDateFrom, "date_from must be a date in YYYY-MM-DD format")
		}
		sel.DateFrom = &from
	}
	if req.To != "" {
		to, err := time.Parse(time.DateOnly, req.To)
		if err != nil {
			return sel, apierrors.ErrValidation(paramDateTo, "date_to must be a date in YYYY-MM-DD format")
		}
		sel.DateTo = &to
	}
	if sel.HasDateRange() && sel.DateFrom.After(*sel.DateTo) {
		return sel, apierrors.ErrValidation(paramDateFrom, "date_from must not be after date_to")
	}

	return sel, nil
}

// selectionQuery renders the filter part of req back into query parameters
func selectionQuery(req api.DatasetQueryRequest) url.Values {
	q := url.Values{}
	for _, v := range req.Companies {
		q.Add(paramCompany, v)
	}
	for _, v := range req.MovementTypes {
		q.Add(paramMovementType, v)
	}
	for _, v := range req.Roles {
		q.Add(paramRole, v)
	}
	if req.From != "" {
		q.Set(paramDateFrom, req.From)
	}
	if req.To != "" {
		q.Set(paramDateTo, req.To)
	}
	return q
}
