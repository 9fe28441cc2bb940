package httpapi

import (
	"embed"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/DoyleJ11/zombie-dashboard/internal/prefs"
	"github.com/DoyleJ11/zombie-dashboard/internal/view"
	sim "github.com/DoyleJ11/zombie-dashboard/pkg/types"
)

//go:embed web/index.html
var webFS embed.FS

var indexTmpl = template.Must(template.ParseFS(webFS, "web/index.html"))

type pageData struct {
	Code       string
	Setup      sim.SetupRequest
	MaxFloors  int
	MaxRooms   int
	MaxZombies int
}

// Index serves the dashboard page. The setup form starts from the saved
// preferences.
func Index(p *prefs.Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setup := p.Setup()
		data := pageData{
			Code:       r.URL.Query().Get("code"),
			Setup:      setup,
			MaxFloors:  view.MaxFloors,
			MaxRooms:   view.MaxRoomsPerFloor,
			MaxZombies: view.MaxInitialZombies(setup.Floors, setup.RoomsPerFloor),
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := indexTmpl.Execute(w, data); err != nil {
			log.Warn("failed to render index", zap.Error(err))
		}
	}
}
