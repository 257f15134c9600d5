package http

import (
	"net/http"
	"strings"
)

// APIPrefix is the mount point of the timetable API.
const APIPrefix = "/api/v1/timetable"

type RouterConfig struct {
	Schedules  *ScheduleHandler
	Catalog    *CatalogHandler
	Health     *HealthHandler
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Schedules != nil {
		collection := func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Schedules.List(w, r)
			case http.MethodPost:
				cfg.Schedules.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		}
		mux.HandleFunc(APIPrefix+"/schedule", collection)
		mux.HandleFunc(APIPrefix+"/schedule/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.Trim(strings.TrimPrefix(r.URL.Path, APIPrefix+"/schedule/"), "/")
			if id == "" {
				collection(w, r)
				return
			}
			r = r.WithContext(ContextWithScheduleEntryID(r.Context(), id))
			switch r.Method {
			case http.MethodGet:
				cfg.Schedules.Get(w, r)
			case http.MethodDelete:
				cfg.Schedules.Delete(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodDelete)
			}
		})
	}

	if cfg.Catalog != nil {
		collections := []struct {
			path   string
			list   http.HandlerFunc
			create http.HandlerFunc
		}{
			{"/teachers", cfg.Catalog.ListTeachers, cfg.Catalog.CreateTeacher},
			{"/rooms", cfg.Catalog.ListRooms, cfg.Catalog.CreateRoom},
			{"/years", cfg.Catalog.ListStudentYears, cfg.Catalog.CreateStudentYear},
			{"/groups", cfg.Catalog.ListStudentGroups, cfg.Catalog.CreateStudentGroup},
			{"/subjects", cfg.Catalog.ListSubjects, cfg.Catalog.CreateSubject},
		}
		for _, c := range collections {
			handle := func(w http.ResponseWriter, r *http.Request) {
				switch r.Method {
				case http.MethodGet:
					c.list(w, r)
				case http.MethodPost:
					c.create(w, r)
				default:
					methodNotAllowed(w, http.MethodGet, http.MethodPost)
				}
			}
			path := APIPrefix + c.path
			mux.HandleFunc(path, handle)
			mux.HandleFunc(path+"/", func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != path+"/" {
					http.NotFound(w, r)
					return
				}
				handle(w, r)
			})
		}
	}

	if cfg.Health != nil {
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Health.Check(w, r)
		})
	}

	var handler http.Handler = mux
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
