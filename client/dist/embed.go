// Package clientdist embeds the browser assets served by the console.
package clientdist

import _ "embed"

// GeoJS is the thin client script. It is served at "_geo/geo.js" under the
// base path.
//
//go:embed geo.js
var GeoJS []byte

// GeoCSS is the console stylesheet.
//
//go:embed geo.css
var GeoCSS []byte
