package schema

import (
	"github.com/mandelsoft/logging"
)

var REALM = logging.DefineRealm("fakir/schema", "row schema compilation")

var log = logging.DynamicLogger(logging.DefaultContext(), REALM)
