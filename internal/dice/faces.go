package dice

import "tokini/internal/options"

// Faces is the set of glyphs the dice cycles through.
var Faces = []string{"🎲", "⚀", "⚁", "⚂", "⚃", "⚄", "⚅"}

// DefaultFace is shown before the first tick.
const DefaultFace = "🎲"

// RandomFace picks a glyph uniformly from Faces.
func RandomFace(rnd options.Rand) string {
	return Faces[rnd.IntN(len(Faces))]
}
