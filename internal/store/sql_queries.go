// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-key-vault/models"
)

const (
	entriesTable  = "entries"
	settingsTable = "settings"
)

var (
	psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

	entryColumns = []string{"id", "title", "account", "password", "note", "created_at", "updated_at"}

	// newest first; id breaks ties so pages are stable
	entryOrder = []string{"created_at DESC", "id ASC"}
)

const (
	upsertEntrySuffix = `ON CONFLICT(id) DO UPDATE SET
		title      = excluded.title,
		account    = excluded.account,
		password   = excluded.password,
		note       = excluded.note,
		created_at = excluded.created_at,
		updated_at = excluded.updated_at`

	upsertSettingSuffix = `ON CONFLICT(key) DO UPDATE SET value = excluded.value`
)

func entryValues(e models.EncryptedEntry) []any {
	return []any{e.ID, e.Title, e.Account, e.Password, e.Note, e.CreatedAt, e.UpdatedAt}
}

func insertEntryQuery(e models.EncryptedEntry) (string, []any, error) {
	return psql.Insert(entriesTable).
		Columns(entryColumns...).
		Values(entryValues(e)...).
		Suffix("ON CONFLICT(id) DO NOTHING").
		ToSql()
}

func upsertEntryQuery(e models.EncryptedEntry) (string, []any, error) {
	return psql.Insert(entriesTable).
		Columns(entryColumns...).
		Values(entryValues(e)...).
		Suffix(upsertEntrySuffix).
		ToSql()
}

func selectEntryByIDQuery(id string) (string, []any, error) {
	return psql.Select(entryColumns...).
		From(entriesTable).
		Where(sq.Eq{"id": id}).
		ToSql()
}

func selectEntriesQuery() (string, []any, error) {
	return psql.Select(entryColumns...).
		From(entriesTable).
		OrderBy(entryOrder...).
		ToSql()
}

func selectEntriesRangeQuery(offset, limit uint64) (string, []any, error) {
	return psql.Select(entryColumns...).
		From(entriesTable).
		OrderBy(entryOrder...).
		Limit(limit).
		Offset(offset).
		ToSql()
}

func updateEntryQuery(e models.EncryptedEntry) (string, []any, error) {
	return psql.Update(entriesTable).
		SetMap(sq.Eq{
			"title":      e.Title,
			"account":    e.Account,
			"password":   e.Password,
			"note":       e.Note,
			"updated_at": e.UpdatedAt,
		}).
		Where(sq.Eq{"id": e.ID}).
		ToSql()
}

func deleteEntryQuery(id string) (string, []any, error) {
	return psql.Delete(entriesTable).
		Where(sq.Eq{"id": id}).
		ToSql()
}

func countEntriesQuery() (string, []any, error) {
	return psql.Select("COUNT(*)").
		From(entriesTable).
		ToSql()
}

func selectSettingQuery(key string) (string, []any, error) {
	return psql.Select("value").
		From(settingsTable).
		Where(sq.Eq{"key": key}).
		ToSql()
}

func upsertSettingQuery(key, value string) (string, []any, error) {
	return psql.Insert(settingsTable).
		Columns("key", "value").
		Values(key, value).
		Suffix(upsertSettingSuffix).
		ToSql()
}
