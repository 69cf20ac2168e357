// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

package tables

import (
	"context"
	"reflect"

	"github.com/tomtom215/repovault/internal/dberrors"
	"github.com/tomtom215/repovault/internal/schema"
	"github.com/tomtom215/repovault/internal/selector"
)

func eqSelector(field string, value interface{}) selector.Node {
	return selector.Eq{Field: field, Value: value}
}

func notFoundErr(op string, key interface{}) error {
	return dberrors.Wrap(dberrors.KindKey, op, "no row for key %v", key)
}

// setScalarIfChanged reads the row at key, compares its column value
// against newValue, and writes back only when they differ — the shared
// read-modify-write shape behind set_filesaved, set_folder,
// set_user_update and friends.
func setScalarIfChanged(ctx context.Context, conn schema.Querier, t *schema.Table, keyField string, key interface{}, column string, newValue interface{}) (bool, error) {
	rows, err := t.Get(ctx, conn, key)
	if err != nil {
		return false, err
	}
	if len(rows) == 0 {
		return false, notFoundErr("tables.setScalarIfChanged", key)
	}
	if reflect.DeepEqual(rows[0][column], newValue) {
		return false, nil
	}
	if err := t.Update(ctx, conn, eqSelector(keyField, key), map[string]interface{}{column: newValue}); err != nil {
		return false, err
	}
	return true, nil
}
