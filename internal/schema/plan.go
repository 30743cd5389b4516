// AngelaMos | 2026
// plan.go

package schema

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Namespace holds every table the service owns.
const Namespace = "app"

// legacyZone is how naive timestamps written by the old store are read when
// they are converted to timestamptz.
const legacyZone = "UTC"

// Plan returns the ordered migration list. Identifiers are constants, so the
// DDL is assembled with Sprintf; no caller data reaches these statements.
func Plan() []Group {
	return []Group{
		{
			Name:  "namespace",
			Steps: []Step{createNamespace(Namespace)},
		},
		{
			Name: "usuarios",
			Steps: []Step{
				createTable("usuarios", `
					id           SERIAL PRIMARY KEY,
					username     VARCHAR(100) UNIQUE NOT NULL,
					senha_hash   TEXT NOT NULL,
					role         VARCHAR(20) NOT NULL DEFAULT 'user',
					is_active    BOOLEAN NOT NULL DEFAULT TRUE,
					must_change  BOOLEAN NOT NULL DEFAULT FALSE,
					created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
					updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()`),
				addColumn("usuarios", "must_change", "BOOLEAN NOT NULL DEFAULT FALSE"),
				addColumn("usuarios", "updated_at", "TIMESTAMPTZ NOT NULL DEFAULT now()"),
				reassertCheck("usuarios", "usuarios_role_chk",
					"role IN ('user','admin','educador')"),
				toTimestamptz("usuarios", "created_at"),
				toTimestamptz("usuarios", "updated_at"),
			},
		},
		{
			Name: "propostas",
			Steps: []Step{
				createTable("propostas", `
					id               SERIAL PRIMARY KEY,
					cliente          VARCHAR(150) NOT NULL,
					produto          VARCHAR(120) NOT NULL,
					valor            NUMERIC(18,2) NOT NULL DEFAULT 0,
					turmas           INTEGER NOT NULL DEFAULT 1,
					head_responsavel VARCHAR(100) NOT NULL,
					qmf              CHAR(1) NOT NULL DEFAULT 'F',
					criado_em        TIMESTAMPTZ NOT NULL DEFAULT now()`),
				addColumn("propostas", "qmf", "CHAR(1) NOT NULL DEFAULT 'F'"),
				reassertCheck("propostas", "propostas_qmf_chk", "qmf IN ('Q','M','F')"),
				reassertCheck("propostas", "propostas_valor_chk", "valor >= 0"),
				reassertCheck("propostas", "propostas_turmas_chk", "turmas > 0"),
				toTimestamptz("propostas", "criado_em"),
				createIndex("propostas", "propostas_head_idx", "head_responsavel, id DESC"),
			},
		},
		{
			Name: "reunioes_efetivadas",
			Steps: []Step{
				createTable("reunioes_efetivadas", activityColumns),
				toTimestamptz("reunioes_efetivadas", "criado_em"),
				createIndex("reunioes_efetivadas", "reunioes_owner_idx", "owner_username, id DESC"),
			},
		},
		{
			Name: "contatos_efetivos",
			Steps: []Step{
				createTable("contatos_efetivos", activityColumns),
				toTimestamptz("contatos_efetivos", "criado_em"),
				createIndex("contatos_efetivos", "contatos_owner_idx", "owner_username, id DESC"),
			},
		},
		{
			Name: "atestados_educadores",
			Steps: []Step{
				createTable("atestados_educadores", `
					id                    SERIAL PRIMARY KEY,
					owner_username        VARCHAR(100) NOT NULL,
					mes                   DATE NOT NULL,
					cliente               VARCHAR(200) NOT NULL,
					projeto_finalizado    TEXT NOT NULL,
					atestado_conquistado  TEXT NOT NULL,
					criado_em             TIMESTAMPTZ NOT NULL DEFAULT now()`),
				toTimestamptz("atestados_educadores", "criado_em"),
				createIndex("atestados_educadores", "atestados_owner_idx", "owner_username, id DESC"),
			},
		},
		{
			Name: "educadores",
			Steps: []Step{
				createTable("educadores", `
					id                SERIAL PRIMARY KEY,
					owner_username    VARCHAR(100) NOT NULL,
					empresa           VARCHAR(200) NOT NULL,
					data_reuniao      DATE,
					contato_nome      VARCHAR(150),
					contato_telefone  VARCHAR(30),
					projeto           TEXT,
					valor_projeto     NUMERIC(18,2),
					atestados         TEXT,
					estado            CHAR(2) NOT NULL,
					nome_educador     VARCHAR(150) NOT NULL,
					criado_em         TIMESTAMPTZ NOT NULL DEFAULT now(),
					atualizado_em     TIMESTAMPTZ NOT NULL DEFAULT now()`),
				addColumn("educadores", "atualizado_em", "TIMESTAMPTZ NOT NULL DEFAULT now()"),
				reassertCheck("educadores", "educadores_valor_chk",
					"valor_projeto IS NULL OR valor_projeto >= 0"),
				toTimestamptz("educadores", "criado_em"),
				createIndex("educadores", "educadores_owner_idx", "owner_username, id DESC"),
			},
		},
	}
}

const activityColumns = `
	id              SERIAL PRIMARY KEY,
	owner_username  VARCHAR(100) NOT NULL,
	data            DATE NOT NULL,
	cliente         VARCHAR(200) NOT NULL,
	responsavel     VARCHAR(150) NOT NULL,
	criado_em       TIMESTAMPTZ NOT NULL DEFAULT now()`

func qualified(table string) string {
	return Namespace + "." + table
}

func createNamespace(name string) Step {
	return Step{
		Name: "create schema " + name,
		Needed: func(ctx context.Context, tx *sqlx.Tx) (bool, error) {
			return queryBool(ctx, tx,
				`SELECT NOT EXISTS (
					SELECT 1 FROM information_schema.schemata WHERE schema_name = $1
				)`, name)
		},
		SQL: []string{fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", name)},
	}
}

func createTable(table, columns string) Step {
	return Step{
		Name: "create table " + qualified(table),
		Needed: func(ctx context.Context, tx *sqlx.Tx) (bool, error) {
			return queryBool(ctx, tx, `SELECT to_regclass($1) IS NULL`, qualified(table))
		},
		SQL: []string{
			fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s\n)", qualified(table), columns),
		},
	}
}

func addColumn(table, column, definition string) Step {
	return Step{
		Name: fmt.Sprintf("add column %s.%s", qualified(table), column),
		Needed: func(ctx context.Context, tx *sqlx.Tx) (bool, error) {
			return queryBool(ctx, tx,
				`SELECT NOT EXISTS (
					SELECT 1 FROM information_schema.columns
					WHERE table_schema = $1 AND table_name = $2 AND column_name = $3
				)`, Namespace, table, column)
		},
		SQL: []string{
			fmt.Sprintf("ALTER TABLE %s ADD COLUMN IF NOT EXISTS %s %s",
				qualified(table), column, definition),
		},
	}
}

// reassertCheck drops and re-adds a check constraint. The store has no
// ADD CONSTRAINT IF NOT EXISTS, so the step always runs.
func reassertCheck(table, name, expr string) Step {
	return Step{
		Name: fmt.Sprintf("check %s on %s", name, qualified(table)),
		SQL: []string{
			fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT IF EXISTS %s", qualified(table), name),
			fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s CHECK (%s)", qualified(table), name, expr),
		},
	}
}

// toTimestamptz converts a naive timestamp column. It only runs when the
// column is still in the old shape.
func toTimestamptz(table, column string) Step {
	return Step{
		Name: fmt.Sprintf("timestamptz %s.%s", qualified(table), column),
		Needed: func(ctx context.Context, tx *sqlx.Tx) (bool, error) {
			return queryBool(ctx, tx,
				`SELECT EXISTS (
					SELECT 1 FROM information_schema.columns
					WHERE table_schema = $1 AND table_name = $2 AND column_name = $3
					  AND data_type = 'timestamp without time zone'
				)`, Namespace, table, column)
		},
		SQL: []string{
			fmt.Sprintf(
				"ALTER TABLE %s ALTER COLUMN %s TYPE TIMESTAMPTZ USING %s AT TIME ZONE '%s'",
				qualified(table), column, column, legacyZone),
		},
	}
}

func createIndex(table, name, columns string) Step {
	return Step{
		Name: fmt.Sprintf("index %s on %s", name, qualified(table)),
		Needed: func(ctx context.Context, tx *sqlx.Tx) (bool, error) {
			return queryBool(ctx, tx, `SELECT to_regclass($1) IS NULL`, qualified(name))
		},
		SQL: []string{
			fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)", name, qualified(table), columns),
		},
	}
}
