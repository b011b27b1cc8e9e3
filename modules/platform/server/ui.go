package server

// indexHTML is the embedded fallback viewer. It implements the viewer
// side of the sync contract: fetch the full snapshot, then subscribe to
// the push channel for deltas and the clear sentinel. Full client
// builds can be served in front of it by a reverse proxy; this page
// keeps the server useful with zero extra assets.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Shellviz</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
    background: #1b1b1d;
    color: #e4e4e7;
    min-height: 100vh;
  }
  .container { max-width: 900px; margin: 0 auto; padding: 24px; }
  .header {
    display: flex;
    justify-content: space-between;
    align-items: center;
    padding-bottom: 16px;
    margin-bottom: 16px;
    border-bottom: 1px solid #27272a;
  }
  .header h1 { font-size: 20px; color: #fff; }
  .conn { font-size: 12px; color: #71717a; }
  .conn.live { color: #4ade80; }
  .entry {
    background: #27272a;
    border: 1px solid #3f3f46;
    border-radius: 10px;
    margin-bottom: 12px;
    overflow: hidden;
  }
  .entry-header {
    padding: 8px 14px;
    font-size: 11px;
    color: #71717a;
    display: flex;
    justify-content: space-between;
    border-bottom: 1px solid #3f3f46;
  }
  .entry-body {
    padding: 12px 14px;
    font-size: 13px;
    font-family: 'SF Mono', 'Fira Code', monospace;
    white-space: pre-wrap;
    word-break: break-all;
  }
  table { border-collapse: collapse; width: 100%; }
  td, th { border: 1px solid #3f3f46; padding: 4px 10px; font-size: 12px; }
  .log-line { padding: 2px 0; }
  .log-ts { color: #52525b; margin-right: 8px; }
  .progress-track { background: #3f3f46; border-radius: 6px; height: 12px; }
  .progress-fill { background: #4ade80; border-radius: 6px; height: 12px; }
  .empty { color: #52525b; text-align: center; padding: 60px; }
</style>
</head>
<body>
<div class="container">
  <div class="header">
    <h1>Shellviz</h1>
    <span class="conn" id="conn">connecting…</span>
  </div>
  <div id="entries"><div class="empty">No entries yet</div></div>
</div>
<script>
(function() {
  var entries = [];
  var CLEAR = '___clear___';

  function esc(s) {
    return String(s).replace(/&/g,'&amp;').replace(/</g,'&lt;').replace(/>/g,'&gt;');
  }

  function renderData(e) {
    var d = e.data;
    if (e.view === 'table' && Array.isArray(d)) {
      return '<table>' + d.map(function(row) {
        var cells = Array.isArray(row) ? row : [row];
        return '<tr>' + cells.map(function(c) { return '<td>' + esc(c) + '</td>'; }).join('') + '</tr>';
      }).join('') + '</table>';
    }
    if (e.view === 'log' && Array.isArray(d)) {
      return d.map(function(item) {
        var msg = Array.isArray(item) ? item[0] : item;
        var ts = Array.isArray(item) && item.length > 1
          ? new Date(item[1] * 1000).toLocaleTimeString() : '';
        return '<div class="log-line"><span class="log-ts">' + ts + '</span>' + esc(msg) + '</div>';
      }).join('');
    }
    if (e.view === 'progress' && typeof d === 'number') {
      var pct = Math.max(0, Math.min(100, d <= 1 ? d * 100 : d));
      return '<div class="progress-track"><div class="progress-fill" style="width:' + pct + '%"></div></div>';
    }
    if (typeof d === 'object') return esc(JSON.stringify(d, null, 2));
    return esc(d);
  }

  function render() {
    var el = document.getElementById('entries');
    if (!entries.length) {
      el.innerHTML = '<div class="empty">No entries yet</div>';
      return;
    }
    el.innerHTML = entries.map(function(e) {
      return '<div class="entry">' +
        '<div class="entry-header"><span>' + esc(e.id) + '</span><span>' + esc(e.view || '') + '</span></div>' +
        '<div class="entry-body">' + renderData(e) + '</div>' +
      '</div>';
    }).join('');
  }

  function apply(entry) {
    if (entry.data === CLEAR) { entries = []; render(); return; }
    for (var i = 0; i < entries.length; i++) {
      if (entries[i].id === entry.id) { entries[i] = entry; render(); return; }
    }
    entries.push(entry);
    render();
  }

  function connect() {
    var proto = location.protocol === 'https:' ? 'wss:' : 'ws:';
    var ws = new WebSocket(proto + '//' + location.host + '/ws');
    ws.onopen = function() {
      document.getElementById('conn').textContent = 'live';
      document.getElementById('conn').className = 'conn live';
      // Snapshot first, then deltas arrive over the socket.
      fetch('/api/entries').then(function(r) { return r.json(); }).then(function(list) {
        entries = list;
        render();
      });
    };
    ws.onmessage = function(ev) {
      try { apply(JSON.parse(ev.data)); } catch (e) {}
    };
    ws.onclose = function() {
      document.getElementById('conn').textContent = 'reconnecting…';
      document.getElementById('conn').className = 'conn';
      setTimeout(connect, 1000);
    };
  }

  connect();
})();
</script>
</body>
</html>`
