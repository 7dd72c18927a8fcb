package component

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJoinResult(t *testing.T) {
	var res JoinResult
	require.NoError(t, res.Err())
	require.Empty(t, res.Registered())

	errDup := errors.New("duplicate")
	res = JoinResult{Registrations: []RegisterResult{
		{Procedure: "a.b"},
		{Procedure: "c.d", Err: errDup},
	}}
	require.Equal(t, []string{"a.b"}, res.Registered())
	err := res.Err()
	require.ErrorIs(t, err, errDup)
	require.ErrorContains(t, err, "register c.d: duplicate")
}
