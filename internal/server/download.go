package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/booky10/modrinth-downloader/internal/modrinth"
)

var (
	// url-safe characters accepted by the API for slugs and ids
	projectPattern = regexp.MustCompile("^[a-zA-Z0-9!@$()`.+,_\"-]{3,64}$")
	// base62 version ids
	versionPattern = regexp.MustCompile(`^[A-Za-z0-9]{8}$`)
)

type failFunc func(status int, message string)

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	project := mux.Vars(r)["project"]
	fail := func(status int, message string) {
		s.writeError(w, "project", project, status, message)
	}

	if !projectPattern.MatchString(project) {
		fail(http.StatusBadRequest, "invalid project specified")
		return
	}

	query, invalid := parseLatestQuery(project, r)
	if invalid != "" {
		fail(http.StatusBadRequest, "invalid query parameter for "+invalid)
		return
	}

	versions, err := s.latest.Get(r.Context(), query, s.client.ProjectVersions)
	if err != nil {
		s.failLoad(r, fail, err)
		return
	}

	list, found := versions.Get()
	if !found {
		fail(http.StatusNotFound, "no version found for query")
		return
	}
	s.respondVersion(w, r, list[0], fail)
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["version"]
	fail := func(status int, message string) {
		s.writeError(w, "version", id, status, message)
	}

	if !versionPattern.MatchString(id) {
		fail(http.StatusBadRequest, "invalid version specified")
		return
	}

	version, err := s.versions.Get(r.Context(), id, s.client.Version)
	if err != nil {
		s.failLoad(r, fail, err)
		return
	}

	found, ok := version.Get()
	if !ok {
		fail(http.StatusNotFound, "version not found")
		return
	}
	s.respondVersion(w, r, found, fail)
}

// parseLatestQuery reads the optional JSON encoded filters. It returns the
// name of the first filter that does not decode.
func parseLatestQuery(project string, r *http.Request) (modrinth.LatestQuery, string) {
	query := modrinth.LatestQuery{Project: project}
	params := r.URL.Query()

	if params.Has("loaders") {
		if err := json.Unmarshal([]byte(params.Get("loaders")), &query.Loaders); err != nil {
			return query, "loaders"
		}
	}
	if params.Has("game_versions") {
		if err := json.Unmarshal([]byte(params.Get("game_versions")), &query.GameVersions); err != nil {
			return query, "game_versions"
		}
	}
	if params.Has("featured") {
		if err := json.Unmarshal([]byte(params.Get("featured")), &query.Featured); err != nil {
			return query, "featured"
		}
	}
	return query, ""
}

func (s *Server) failLoad(r *http.Request, fail failFunc, err error) {
	var statusErr *modrinth.StatusError
	if errors.As(err, &statusErr) {
		status := statusErr.Status
		if status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}
		fail(status, "received invalid status code from modrinth")
		return
	}

	s.logger.Error("Failed to load from API",
		zap.String("request_id", requestIDFrom(r.Context())),
		zap.String("remote", clientIP(r)),
		zap.String("url", r.URL.String()),
		zap.Error(err))
	fail(http.StatusInternalServerError, "server error")
}

// respondVersion redirects to the version's primary file, or writes the
// version document when the client asked for JSON.
func (s *Server) respondVersion(w http.ResponseWriter, r *http.Request, version modrinth.Version, fail failFunc) {
	wantJSON := r.URL.Query().Has("json") || strings.Contains(r.Header.Get("Accept"), "json")

	file, hasFile := version.PrimaryFile()
	if !hasFile && !wantJSON {
		fail(http.StatusNotFound, "no primary file found")
		return
	}

	header := w.Header()
	header.Set("X-Version", version.VersionNumber)
	if hasFile {
		header.Set("X-File-Size", strconv.FormatInt(file.Size, 10))
		header.Set("X-File-Sha1", file.Hashes.Sha1)
		header.Set("X-File-Sha512", file.Hashes.Sha512)
	}

	if !wantJSON {
		http.Redirect(w, r, file.URL, http.StatusSeeOther)
		return
	}

	status := http.StatusOK
	if !hasFile {
		status = http.StatusNotFound
	}
	if len(version.Raw) > 0 {
		header.Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		if _, err := w.Write(version.Raw); err != nil {
			s.logger.Error("Failed to write response", zap.Error(err))
		}
		return
	}
	s.writeJSON(w, status, version)
}
