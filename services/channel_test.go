package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChannelID_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"u1", "u2"},
		{"zed", "alpha"},
		{"4f3c-aa", "4f3c-ab"},
		{"B", "a"},
	}
	for _, p := range pairs {
		req := require.New(t)
		ab, err := ChannelID(p[0], p[1])
		req.NoError(err)
		ba, err := ChannelID(p[1], p[0])
		req.NoError(err)
		req.Equal(ab, ba)
	}
}

func TestChannelID_Distinct(t *testing.T) {
	req := require.New(t)
	ab, err := ChannelID("a", "b")
	req.NoError(err)
	ac, err := ChannelID("a", "c")
	req.NoError(err)
	req.NotEqual(ab, ac)
}

func TestChannelID_Scenario(t *testing.T) {
	id, err := ChannelID("u2", "u1")
	require.NoError(t, err)
	require.Equal(t, "u1_u2", id)
}

func TestChannelID_Invalid(t *testing.T) {
	cases := map[string][2]string{
		"empty first":  {"", "u2"},
		"empty second": {"u1", ""},
		"self chat":    {"u1", "u1"},
		"separator":    {"u_1", "u2"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ChannelID(c[0], c[1])
			require.ErrorIs(t, err, ErrInvalidParticipants)
		})
	}
}

func TestParseChannelID(t *testing.T) {
	req := require.New(t)

	id, err := ChannelID("u9", "u3")
	req.NoError(err)
	a, b, err := ParseChannelID(id)
	req.NoError(err)
	req.Equal("u3", a)
	req.Equal("u9", b)

	for _, bad := range []string{"", "u1", "u1_u1", "_u1", "u2_u1", "a_b_c"} {
		_, _, err = ParseChannelID(bad)
		req.ErrorIs(err, ErrInvalidParticipants, bad)
	}
}
