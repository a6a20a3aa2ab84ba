package httpapi

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"musiclib/internal/auth"
	"musiclib/internal/http/middleware"
	"musiclib/internal/models"
)

// SessionService covers signup, login and token refresh.
type SessionService interface {
	Signup(ctx context.Context, in models.Credentials) (models.User, error)
	Login(ctx context.Context, in models.Credentials) (auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error)
}

// UserService captures the account operations needed by the HTTP handlers.
type UserService interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id string) (models.User, error)
	Create(ctx context.Context, in models.Credentials) (models.User, error)
	UpdatePassword(ctx context.Context, id string, change models.PasswordChange) (models.User, error)
	Delete(ctx context.Context, id string) error
}

// ArtistService describes artist catalogue workflows.
type ArtistService interface {
	List(ctx context.Context) ([]models.Artist, error)
	Get(ctx context.Context, id string) (models.Artist, error)
	Create(ctx context.Context, in models.NewArtist) (models.Artist, error)
	Update(ctx context.Context, id string, patch models.ArtistPatch) (models.Artist, error)
	Delete(ctx context.Context, id string) error
}

// AlbumService exposes album workflows.
type AlbumService interface {
	List(ctx context.Context) ([]models.Album, error)
	Get(ctx context.Context, id string) (models.Album, error)
	Create(ctx context.Context, in models.NewAlbum) (models.Album, error)
	Update(ctx context.Context, id string, patch models.AlbumPatch) (models.Album, error)
	Delete(ctx context.Context, id string) error
}

// TrackService exposes track workflows.
type TrackService interface {
	List(ctx context.Context) ([]models.Track, error)
	Get(ctx context.Context, id string) (models.Track, error)
	Create(ctx context.Context, in models.NewTrack) (models.Track, error)
	Update(ctx context.Context, id string, patch models.TrackPatch) (models.Track, error)
	Delete(ctx context.Context, id string) error
}

// FavoritesService coordinates favoriting workflows.
type FavoritesService interface {
	List(ctx context.Context) (models.Favorites, error)
	Add(ctx context.Context, kind models.Kind, id string) error
	Remove(ctx context.Context, kind models.Kind, id string) error
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	sessions  SessionService
	users     UserService
	artists   ArtistService
	albums    AlbumService
	tracks    TrackService
	favorites FavoritesService
}

// New configures a Server with the given services.
func New(
	sessions SessionService,
	users UserService,
	artists ArtistService,
	albums AlbumService,
	tracks TrackService,
	favorites FavoritesService,
) *Server {
	return &Server{
		sessions:  sessions,
		users:     users,
		artists:   artists,
		albums:    albums,
		tracks:    tracks,
		favorites: favorites,
	}
}

// Routes registers every endpoint on a gorilla/mux router.
func (s *Server) Routes() *mux.Router {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "Cannot "+r.Method+" "+r.URL.Path)
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods(http.MethodGet)

	authRoutes := router.PathPrefix("/auth").Subrouter()
	authRoutes.HandleFunc("/signup", s.handleSignup).Methods(http.MethodPost)
	authRoutes.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	authRoutes.HandleFunc("/refresh", s.handleRefresh).Methods(http.MethodPost)

	router.HandleFunc("/user", s.handleListUsers).Methods(http.MethodGet)
	router.HandleFunc("/user", s.handleCreateUser).Methods(http.MethodPost)
	router.HandleFunc("/user/{id}", s.handleGetUser).Methods(http.MethodGet)
	router.HandleFunc("/user/{id}", s.handleUpdateUser).Methods(http.MethodPut)
	router.HandleFunc("/user/{id}", s.handleDeleteUser).Methods(http.MethodDelete)

	router.HandleFunc("/artist", s.handleListArtists).Methods(http.MethodGet)
	router.HandleFunc("/artist", s.handleCreateArtist).Methods(http.MethodPost)
	router.HandleFunc("/artist/{id}", s.handleGetArtist).Methods(http.MethodGet)
	router.HandleFunc("/artist/{id}", s.handleUpdateArtist).Methods(http.MethodPut)
	router.HandleFunc("/artist/{id}", s.handleDeleteArtist).Methods(http.MethodDelete)

	router.HandleFunc("/album", s.handleListAlbums).Methods(http.MethodGet)
	router.HandleFunc("/album", s.handleCreateAlbum).Methods(http.MethodPost)
	router.HandleFunc("/album/{id}", s.handleGetAlbum).Methods(http.MethodGet)
	router.HandleFunc("/album/{id}", s.handleUpdateAlbum).Methods(http.MethodPut)
	router.HandleFunc("/album/{id}", s.handleDeleteAlbum).Methods(http.MethodDelete)

	router.HandleFunc("/track", s.handleListTracks).Methods(http.MethodGet)
	router.HandleFunc("/track", s.handleCreateTrack).Methods(http.MethodPost)
	router.HandleFunc("/track/{id}", s.handleGetTrack).Methods(http.MethodGet)
	router.HandleFunc("/track/{id}", s.handleUpdateTrack).Methods(http.MethodPut)
	router.HandleFunc("/track/{id}", s.handleDeleteTrack).Methods(http.MethodDelete)

	router.HandleFunc("/favs", s.handleListFavorites).Methods(http.MethodGet)
	router.HandleFunc("/favs/{kind}/{id}", s.handleAddFavorite).Methods(http.MethodPost)
	router.HandleFunc("/favs/{kind}/{id}", s.handleRemoveFavorite).Methods(http.MethodDelete)

	return router
}

// Handler returns the routes wrapped in the full middleware chain: panic
// recovery, request logging, CORS and the bearer guard. /health and /auth are
// reachable without a token.
func (s *Server) Handler(tokens middleware.AccessVerifier, allowedOrigins []string) http.Handler {
	var h http.Handler = s.Routes()
	h = middleware.BearerAuth(tokens, "/health", "/auth")(h)
	h = middleware.CORS(allowedOrigins)(h)
	h = middleware.RequestLogging()(h)
	h = middleware.Recovery()(h)
	return h
}

func pathID(r *http.Request) string {
	return mux.Vars(r)["id"]
}
