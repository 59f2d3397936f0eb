package pdfrender

import "go.uber.org/fx"

// Module exposes the receipt document renderer to the fx graph.
var Module = fx.Provide(New)
