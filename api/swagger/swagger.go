// Package swagger embeds the OpenAPI document for the HTTP facade.
package swagger

import _ "embed"

// FileName is the name the document is served under.
const FileName = "users.swagger.json"

//go:embed users.swagger.json
var Document []byte
