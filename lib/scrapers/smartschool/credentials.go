package smartschool

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Credentials struct {
	Username string
	Password string
	// e.g. https://myschool.smartschool.be
	MainUrl string
}

func (c Credentials) Validate() error {
	if c.Username == "" {
		return fmt.Errorf("%w: username is empty", InvalidArgument)
	}
	if c.Password == "" {
		return fmt.Errorf("%w: password is empty", InvalidArgument)
	}
	if c.MainUrl == "" {
		return fmt.Errorf("%w: main url is empty", InvalidArgument)
	}
	return nil
}

// resolves credentials from SMARTSCHOOL_USERNAME, SMARTSCHOOL_PASSWORD
// and SMARTSCHOOL_MAIN_URL, loading a .env from the cwd first when one
// exists
func EnvCredentials() (Credentials, error) {
	godotenv.Load()

	creds := Credentials{
		Username: os.Getenv("SMARTSCHOOL_USERNAME"),
		Password: os.Getenv("SMARTSCHOOL_PASSWORD"),
		MainUrl:  os.Getenv("SMARTSCHOOL_MAIN_URL"),
	}
	return creds, creds.Validate()
}
