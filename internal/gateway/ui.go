package gateway

import _ "embed"

//go:embed index.html
var indexHTML []byte
