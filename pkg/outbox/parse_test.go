package outbox

import (
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

func TestParseIdentifier(t *testing.T) {
	t.Parallel()

	got, err := ParseIdentifier("public.roster_outbox")
	require.NoError(t, err)
	require.Equal(t, pgx.Identifier{"public", "roster_outbox"}, got)

	got, err = ParseIdentifier("roster_outbox")
	require.NoError(t, err)
	require.Equal(t, pgx.Identifier{"roster_outbox"}, got)

	for _, bad := range []string{"", "a.b.c", "pub lic.t", "t;drop"} {
		_, err := ParseIdentifier(bad)
		require.ErrorIs(t, err, ErrInvalidConfig, "input %q", bad)
	}
}

func TestParseIdentifierList(t *testing.T) {
	t.Parallel()

	got, err := ParseIdentifierList(" public.roster_outbox , audit_outbox ,")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "public.roster_outbox", TableLabel(got[0]))
	require.Equal(t, "audit_outbox", TableLabel(got[1]))

	got, err = ParseIdentifierList("")
	require.NoError(t, err)
	require.Nil(t, got)
}
