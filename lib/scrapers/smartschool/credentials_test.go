package smartschool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnvCredentials(t *testing.T) {
	t.Setenv("SMARTSCHOOL_USERNAME", "bumba")
	t.Setenv("SMARTSCHOOL_PASSWORD", "delu")
	t.Setenv("SMARTSCHOOL_MAIN_URL", "https://school.smartschool.be")

	creds, err := EnvCredentials()
	require.NoError(t, err)
	require.Equal(t, Credentials{
		Username: "bumba",
		Password: "delu",
		MainUrl:  "https://school.smartschool.be",
	}, creds)
}

func TestEnvCredentialsMissing(t *testing.T) {
	t.Setenv("SMARTSCHOOL_USERNAME", "bumba")
	t.Setenv("SMARTSCHOOL_PASSWORD", "")
	t.Setenv("SMARTSCHOOL_MAIN_URL", "https://school.smartschool.be")

	_, err := EnvCredentials()
	require.ErrorIs(t, err, InvalidArgument)
	require.Contains(t, err.Error(), "password")
}
