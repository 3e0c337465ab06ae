package http

import (
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/winn0518/ShoreSquad/internal/events"
	"github.com/winn0518/ShoreSquad/internal/forecast"
	"github.com/winn0518/ShoreSquad/internal/models"
)

// pageData feeds the home template.
type pageData struct {
	Days           []models.ForecastDay
	Notice         string
	DegradedNotice string
	Events         []eventView
	CrewCount      int
}

type eventView struct {
	ID           string
	Title        string
	Beach        string
	Region       string
	MeetingPoint string
	When         string
}

// GetHome handles GET /. The forecast panel renders server-side from the same
// refresh cycle the API uses; the inline script re-renders the cards in place
// when the visitor asks for a refresh, and falls back to a plain form post
// when scripting is unavailable.
func (h *Handler) GetHome(w http.ResponseWriter, r *http.Request) {
	outcome := h.forecasts.Refresh(r.Context())

	evts := h.catalog.List(h.clock.Now(), events.Filter{Upcoming: true})
	views := make([]eventView, 0, len(evts))
	for _, e := range evts {
		views = append(views, eventView{
			ID:           e.ID,
			Title:        e.Title,
			Beach:        e.Beach,
			Region:       e.Region,
			MeetingPoint: e.MeetingPoint,
			When:         e.Date.Format("Mon, Jan 2, 3:04 PM"),
		})
	}

	count, err := h.roster.Count(r.Context())
	if err != nil {
		h.logger.Debug("crew count unavailable", zap.Error(err))
	}

	data := pageData{
		Days:           outcome.Days,
		Notice:         outcome.Notice,
		DegradedNotice: forecast.NoticeDegraded,
		Events:         views,
		CrewCount:      count,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := homeTemplate.Execute(w, data); err != nil {
		h.logger.Debug("home render failed", zap.Error(err))
	}
}

var homeTemplate = template.Must(template.New("home").Parse(homeHTML))

const homeHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1"/>
<title>ShoreSquad</title>
<style>
:root {
	--ocean: #0077b6;
	--ocean-deep: #03045e;
	--sand: #f6f1e7;
	--card-bg: #ffffff;
	--card-border: #d8e2ea;
	--text-color: #1b2a38;
	--muted: #5b7083;
}
body {
	font-family: Arial, sans-serif;
	max-width: 960px;
	margin: 0 auto;
	padding: 20px;
	background-color: var(--sand);
	color: var(--text-color);
}
header h1 { color: var(--ocean-deep); margin-bottom: 4px; }
header p { color: var(--muted); margin-top: 0; }
section { margin-top: 28px; }
h2 { color: var(--ocean); }
.section-head { display: flex; justify-content: space-between; align-items: center; }
.notice { min-height: 1.4em; color: var(--ocean-deep); font-weight: bold; margin: 8px 0; }
.cards {
	display: grid;
	grid-template-columns: repeat(auto-fit, minmax(180px, 1fr));
	gap: 12px;
}
.card {
	background-color: var(--card-bg);
	border: 1px solid var(--card-border);
	border-radius: 8px;
	padding: 12px;
	text-align: center;
}
.card .day { margin: 0; }
.card .date { color: var(--muted); margin: 2px 0 8px; }
.card .emoji { font-size: 2.2em; margin: 0; }
.card .condition { font-weight: bold; margin: 8px 0 4px; }
.card .text { color: var(--muted); font-size: 0.9em; margin: 0; }
.events { list-style: none; padding: 0; display: grid; gap: 12px; }
.event {
	background-color: var(--card-bg);
	border: 1px solid var(--card-border);
	border-radius: 8px;
	padding: 12px;
}
.event h3 { margin: 0 0 4px; }
.event p { margin: 2px 0; }
.muted { color: var(--muted); }
.placeholder { color: var(--muted); font-style: italic; }
form label { display: block; margin: 10px 0 4px; }
form input, form select {
	width: 100%;
	max-width: 360px;
	padding: 6px;
	border: 1px solid var(--card-border);
	border-radius: 4px;
}
button {
	background-color: var(--ocean);
	color: #fff;
	border: none;
	border-radius: 4px;
	padding: 8px 16px;
	cursor: pointer;
}
button:disabled { opacity: 0.6; cursor: wait; }
form button { margin-top: 12px; }
</style>
</head>
<body>
<header>
	<h1>ShoreSquad</h1>
	<p>Rally your crew, track the weather, and hit the next beach cleanup.</p>
</header>

<section id="forecast-section">
	<div class="section-head">
		<h2>4-Day Weather Forecast</h2>
		<button id="refresh-weather" type="button">Refresh</button>
	</div>
	<div id="weather-notice" class="notice" role="status" aria-live="polite">{{.Notice}}</div>
	<div id="forecast" class="cards">
	{{range .Days}}
		<article class="card" role="region" aria-label="Weather for {{.Day}}">
			<h3 class="day">{{.Day}}</h3>
			<p class="date">{{.Date}}</p>
			<p class="emoji" aria-hidden="true">{{.Emoji}}</p>
			<p class="condition">{{.Condition}}</p>
			<p class="text">{{.Forecast}}</p>
		</article>
	{{else}}
		<p class="placeholder">Weather data is unavailable right now.</p>
	{{end}}
	</div>
</section>

<section id="events-section">
	<h2>Upcoming Cleanups</h2>
	{{if .Events}}
	<ul class="events">
	{{range .Events}}
		<li class="event">
			<h3>{{.Title}}</h3>
			<p>{{.Beach}} ({{.Region}})</p>
			<p>Meet at {{.MeetingPoint}}</p>
			<p class="muted">{{.When}}</p>
		</li>
	{{end}}
	</ul>
	{{else}}
	<p class="placeholder">No upcoming cleanups scheduled.</p>
	{{end}}
</section>

<section id="crew-section">
	<h2>Join the Crew</h2>
	<p class="muted">{{.CrewCount}} crew member{{if ne .CrewCount 1}}s{{end}} signed up so far.</p>
	<form id="join-form" method="post" action="/api/crew">
		<label>Name <input name="name" required minlength="2" maxlength="80"></label>
		<label>Email <input name="email" type="email" required></label>
		<label>Phone (optional) <input name="phone" minlength="8" maxlength="20"></label>
		<label>Cleanup
			<select name="eventId" required>
				{{range .Events}}<option value="{{.ID}}">{{.Title}}</option>{{end}}
			</select>
		</label>
		<button type="submit">Join</button>
	</form>
	<div id="join-notice" class="notice" role="status" aria-live="polite"></div>
</section>

<script>
(function () {
	var degraded = {{.DegradedNotice}};

	var btn = document.getElementById('refresh-weather');
	if (btn) {
		btn.addEventListener('click', function () {
			btn.disabled = true;
			fetch('/api/weather/refresh', { method: 'POST' })
				.then(function (res) { return res.json(); })
				.then(function (out) {
					var notice = document.getElementById('weather-notice');
					if (out.notice) { notice.textContent = out.notice; }
					var cards = document.querySelectorAll('#forecast .card');
					(out.days || []).forEach(function (d, i) {
						var card = cards[i];
						if (!card) { return; }
						card.setAttribute('aria-label', 'Weather for ' + d.day);
						card.querySelector('.day').textContent = d.day;
						card.querySelector('.date').textContent = d.date;
						card.querySelector('.emoji').textContent = d.emoji;
						card.querySelector('.condition').textContent = d.condition;
						card.querySelector('.text').textContent = d.forecast;
					});
				})
				.catch(function () {
					document.getElementById('weather-notice').textContent = degraded;
				})
				.finally(function () { btn.disabled = false; });
		});
	}

	var form = document.getElementById('join-form');
	if (form) {
		form.addEventListener('submit', function (ev) {
			ev.preventDefault();
			var notice = document.getElementById('join-notice');
			fetch('/api/crew', {
				method: 'POST',
				headers: { 'Content-Type': 'application/json' },
				body: JSON.stringify({
					name: form.name.value,
					email: form.email.value,
					phone: form.phone.value,
					eventId: form.eventId.value
				})
			}).then(function (res) {
				if (res.status === 201) {
					notice.textContent = 'Welcome aboard! See you at the beach.';
					form.reset();
					return;
				}
				return res.json().then(function (body) {
					notice.textContent = body.error ? body.error.message : 'Could not join right now.';
				});
			}).catch(function () {
				notice.textContent = 'Could not join right now.';
			});
		});
	}
})();
</script>
</body>
</html>
`
