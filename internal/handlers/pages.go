package handlers

import (
	"Reisekarte/internal/service"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// PageHandler отдаёт HTML-страницы карты и админки.
// Вёрстка нарочно минимальная: весь интерес на стороне API.
type PageHandler struct {
	Locations *service.LocationService
	Logger    *zap.SugaredLogger
}

func NewPageHandler(locations *service.LocationService, logger *zap.SugaredLogger) *PageHandler {
	return &PageHandler{Locations: locations, Logger: logger}
}

const loginPageHTML = `<!DOCTYPE html>
<html lang="de">
<head><meta charset="utf-8"><title>Reisekarte – Login</title></head>
<body>
<h1>Reisekarte</h1>
<form id="login">
  <input type="password" name="accessCode" placeholder="Zugriffscode" autofocus>
  <button type="submit">Anmelden</button>
  <p id="error" style="color:red"></p>
</form>
<script>
const sessionId = %q;
document.getElementById('login').addEventListener('submit', async (e) => {
  e.preventDefault();
  const res = await fetch('/login', {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify({accessCode: e.target.accessCode.value, sessionId})
  });
  const data = await res.json();
  if (data.success) { window.location = data.redirect; }
  else { document.getElementById('error').textContent = data.message; }
});
</script>
</body>
</html>`

const mapPageHTML = `<!DOCTYPE html>
<html lang="de">
<head>
<meta charset="utf-8"><title>Reisekarte</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>#map{height:100vh}</style>
</head>
<body>
<div id="map"></div>
<script>
const sessionId = %q;
const map = L.map('map').setView([48.1374, 11.5755], 5);
L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
  attribution: '&copy; OpenStreetMap'
}).addTo(map);
fetch('/api/locations?sessionId=' + sessionId)
  .then(r => r.json())
  .then(locs => locs.forEach(loc => {
    const m = L.marker([loc.latitude, loc.longitude]).addTo(map);
    m.bindPopup('<b>' + loc.title + '</b>' +
      (loc.has_image ? '<br><img src="/api/locations/' + loc.id + '/thumbnail?sessionId=' + sessionId + '">' : ''));
  }));
</script>
</body>
</html>`

const adminPageHTML = `<!DOCTYPE html>
<html lang="de">
<head><meta charset="utf-8"><title>Reisekarte – Admin</title></head>
<body>
<h1>Admin</h1>
<p>Datenbank: %s</p>
<p>Gespeicherte Orte: %d</p>
<form method="post" action="/admin/fix-database?sessionId=%s"><button>Schema reparieren</button></form>
<form method="post" action="/admin/reset-database?sessionId=%s" onsubmit="return confirm('Alle Daten löschen?')">
  <button>Datenbank zurücksetzen</button>
</form>
<p><a href="/map?sessionId=%s">Zur Karte</a></p>
</body>
</html>`

// MapPage — карта с маркерами; требует авторизованную сессию.
func (h *PageHandler) MapPage(w http.ResponseWriter, r *http.Request) {
	if !requirePageAuth(w, r) {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, mapPageHTML, sessionIDOf(r))
}

// AdminPage — состояние базы и ссылки на fix/reset.
func (h *PageHandler) AdminPage(w http.ResponseWriter, r *http.Request) {
	if !requirePageAuth(w, r) {
		return
	}

	dbStatus := "ok"
	count, err := h.Locations.Count(r.Context())
	if err != nil {
		h.Logger.Errorw("admin: count failed", "error", err)
		dbStatus = "Fehler, Verbindung prüfen"
	}

	id := sessionIDOf(r)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, adminPageHTML, dbStatus, count, id, id, id)
}

// FixDatabase повторно применяет миграцию схемы.
func (h *PageHandler) FixDatabase(w http.ResponseWriter, r *http.Request) {
	if !requirePageAuth(w, r) {
		return
	}

	if err := h.Locations.FixDatabase(r.Context()); err != nil {
		h.Logger.Errorw("admin: fix-database failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
		return
	}
	http.Redirect(w, r, "/admin?sessionId="+sessionIDOf(r), http.StatusFound)
}

// ResetDatabase пересоздаёт таблицу. Деструктивно, поэтому только POST.
func (h *PageHandler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if !requirePageAuth(w, r) {
		return
	}

	if err := h.Locations.ResetDatabase(r.Context()); err != nil {
		h.Logger.Errorw("admin: reset-database failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
		return
	}
	h.Logger.Infow("admin: database reset")
	http.Redirect(w, r, "/admin?sessionId="+sessionIDOf(r), http.StatusFound)
}
