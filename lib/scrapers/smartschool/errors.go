package smartschool

import "errors"

// sentinel taxonomy, callers match with errors.Is. wrapping sites
// attach the offending value with fmt.Errorf("%w: ...").
var InvalidArgument = errors.New("invalid argument")
var MalformedResponse = errors.New("response could not be parsed")
var MappingError = errors.New("missing required field")
var NotFound = errors.New("no matching record")

var InvalidCredentials = errors.New("Incorrect username or password.")
var LoginFailed = errors.New("Failed to login to your account.")
