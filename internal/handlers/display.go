package handlers

import "net/http"

const banner = `
 ____            _        _         _ _ ____  ____
|  _ \ _ __ ___ | |_ ___ | | _____ | | |  _ \| __ )
| |_) | '__/ _ \| __/ _ \| |/ / _ \| | | | | |  _ \
|  __/| | | (_) | || (_) |   < (_) | | | |_| | |_) |
|_|   |_|  \___/ \__\___/|_|\_\___/|_|_|____/|____/

ProtokollDB (Backend)
`

const homePage = `
<html>
	<h1>Fachschaft Medizin</h1>
	<h2>Protokolldatenbank</h2>
	<p>Willkommen auf dem Backend der ProtokollDB.</p>
	<p><a href="/login">Hier</a> kannst du dich direkt einloggen.</p>
</html>
`

func (h *Handler) HandleHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(homePage))
}

func (h *Handler) HandleInfo(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(banner))
}

func (h *Handler) HandleInvalidAuth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte("<html><h1>Authentication isn't configured correctly. Please contact your server admin.</h1></html>"))
}
