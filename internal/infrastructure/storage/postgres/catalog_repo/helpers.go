// Package catalog_repo provides PostgreSQL implementations for catalog
// repositories. All queries are scoped by tenant_id.
package catalog_repo

import (
	"context"
	"strings"

	appctx "fieldops/internal/core/context"
	"fieldops/internal/core/apperror"
	"fieldops/internal/core/id"
)

func tenantID(ctx context.Context) id.ID {
	tid, err := id.Parse(appctx.GetTenantID(ctx))
	if err != nil {
		return id.Nil()
	}
	return tid
}

// parseOrderBy validates the order key against a column whitelist.
// "-field" sorts descending.
func parseOrderBy(orderBy string, columns []string) (string, error) {
	if orderBy == "" {
		return "name ASC", nil
	}

	direction := "ASC"
	field := orderBy
	if strings.HasPrefix(orderBy, "-") {
		direction = "DESC"
		field = strings.TrimPrefix(orderBy, "-")
	}
	field = strings.TrimSpace(field)

	for _, col := range columns {
		if col == field {
			return field + " " + direction, nil
		}
	}
	return "", apperror.NewValidation("invalid orderBy").
		WithDetail("orderBy", orderBy)
}
