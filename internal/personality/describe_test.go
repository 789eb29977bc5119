package personality

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	res, err := Describe("ENFP-A")
	require.NoError(t, err)
	require.Equal(t, Type("ENFP-A"), res.FullType)
	require.Equal(t, "The Campaigner - Enthusiastic, creative, and sociable free spirits.", res.BaseDescription)
	require.Equal(t, "Assertive: Confident, emotionally stable, and resistant to stress.", res.IdentityDescription)
}

func TestDescribeIdentityIndependentOfBase(t *testing.T) {
	a, err := Describe("ISTP-A")
	require.NoError(t, err)
	b, err := Describe("ISTP-T")
	require.NoError(t, err)
	require.Equal(t, a.BaseDescription, b.BaseDescription)
	require.NotEqual(t, a.IdentityDescription, b.IdentityDescription)
}

func TestDescribeUnknownType(t *testing.T) {
	for _, bad := range []Type{"", "ABCD-A", "ISTP", "ISTP-Q"} {
		_, err := Describe(bad)
		require.ErrorIsf(t, err, ErrUnknownType, "type %q", bad)
	}
}

func TestDescriptionTablesComplete(t *testing.T) {
	require.Len(t, baseDescriptions, 16)
	require.Len(t, identityDescriptions, 2)
}
