package internal

import (
	"fmt"
	"io"
	"net/http"

	"github.com/jasonlovesdoggo/mctools/licenses"

	"go4.org/legal"
)

func init() {
	legal.RegisterLicense(licenses.MitLicense)
}

// WriteLicenses prints every registered license to w, one section each.
func WriteLicenses(w io.Writer) {
	lics := legal.Licenses()
	fmt.Fprintf(w, "%s ships under %d license(s).\n", ReadBuild(), len(lics))
	for i, li := range lics {
		fmt.Fprintf(w, "\n== license %d ==\n\n%s\n", i+1, li)
	}
}

func licensesHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	WriteLicenses(w)
}
