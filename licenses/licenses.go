// Package licenses embeds the license texts this program is distributed under.
package licenses

import _ "embed"

//go:embed mit.txt
var MitLicense string
