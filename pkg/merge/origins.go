package merge

import (
	"github.com/fatpack/fatpack/pkg/types"
)

// originsOf resolves each source to its originating archive or
// directory for conflict diagnostics. Sources whose origin cannot be
// determined fall back to their workspace path, so an error message is
// always produced.
func originsOf(ws types.Workspace, sources []types.SourcePair) []string {
	origins := make([]string, 0, len(sources))
	for _, pair := range sources {
		origin, err := ws.Origin(pair.Source)
		if err != nil {
			origins = append(origins, pair.Source)
			continue
		}
		origins = append(origins, origin.Source)
	}
	return origins
}
