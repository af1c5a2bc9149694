package server

// indexPage is the embedded explorer UI. Sliders post to /api/solve on every
// change; the returned samples are drawn on a canvas, saved traces overlaid.
const indexPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Mass-Spring-Damper Explorer</title>
<style>
body { background: #101014; color: #ddd; font-family: monospace; margin: 0; display: flex; }
#side { width: 320px; padding: 1.2em; background: #16161c; min-height: 100vh; box-sizing: border-box; }
#main { flex: 1; padding: 1.2em; }
h1 { font-size: 1.1em; color: #5fe0e0; }
label { display: block; margin-top: 0.9em; color: #9a9ab0; font-size: 0.85em; }
input[type=range] { width: 100%; }
.val { color: #ff9aff; }
#regime { margin-top: 1.2em; padding: 0.7em; border: 1px solid #33333f; }
#regime b { color: #a0ff60; }
button { background: #22222c; color: #ddd; border: 1px solid #44445a; padding: 0.45em 0.9em; margin: 0.9em 0.4em 0 0; cursor: pointer; font-family: monospace; }
button:hover { border-color: #5fe0e0; }
canvas { background: #0a0a0a; border: 1px solid #33333f; width: 100%; }
#traces { font-size: 0.8em; color: #888; margin-top: 0.8em; }
#traces em { color: #ffd060; font-style: normal; }
a { color: #5fe0e0; }
</style>
</head>
<body>
<div id="side">
<h1>Mass-Spring-Damper Explorer</h1>
<div id="sliders"></div>
<div id="regime">regime: <b id="rlabel">-</b><br>&Delta; = <span id="delta">-</span><br>&omega;&#8320; = <span id="omega0">-</span>, &zeta; = <span id="zeta">-</span></div>
<button onclick="addTrace()">add trace</button>
<button onclick="clearTraces()">clear</button>
<div>
<label>export title</label>
<input id="title" style="width:100%" placeholder="optional title">
<p>
<a href="#" onclick="return dl('svg')">svg</a> &middot;
<a href="#" onclick="return dl('html')">html</a> &middot;
<a href="#" onclick="return dl('pdf')">pdf</a> &middot;
<a href="#" onclick="return dl('xlsx')">xlsx</a> &middot;
<a href="#" onclick="return dl('csv')">csv</a> &middot;
<a href="#" onclick="return dl('json')">json</a>
</p>
</div>
</div>
<div id="main">
<canvas id="plot" width="1100" height="560"></canvas>
<div id="traces"></div>
</div>
<script>
const fields = [
  {name:"mass", label:"mass (m)", min:0.1, max:10, step:0.1, value:1},
  {name:"stiffness", label:"spring constant (k)", min:0.1, max:20, step:0.1, value:4},
  {name:"damping", label:"damping coefficient (b)", min:0, max:20, step:0.1, value:4},
  {name:"x0", label:"initial position (x0)", min:-10, max:10, step:0.1, value:1},
  {name:"v0", label:"initial velocity (v0)", min:-10, max:10, step:0.1, value:0},
  {name:"duration", label:"duration (s)", min:2, max:30, step:1, value:10},
];
let current = null;
let saved = [];

const sliders = document.getElementById("sliders");
for (const f of fields) {
  const l = document.createElement("label");
  l.innerHTML = f.label + ": <span class=\"val\" id=\"v_" + f.name + "\">" + f.value + "</span>";
  const i = document.createElement("input");
  i.type = "range"; i.min = f.min; i.max = f.max; i.step = f.step; i.value = f.value; i.id = f.name;
  i.oninput = () => { document.getElementById("v_" + f.name).textContent = i.value; solve(); };
  sliders.appendChild(l); sliders.appendChild(i);
}

function body() {
  const b = {};
  for (const f of fields) b[f.name] = parseFloat(document.getElementById(f.name).value);
  return b;
}

async function solve() {
  const res = await fetch("/api/solve", {method:"POST", headers:{"Content-Type":"application/json"}, body: JSON.stringify(body())});
  if (!res.ok) return;
  current = await res.json();
  document.getElementById("rlabel").textContent = current.regime;
  document.getElementById("delta").textContent = current.delta.toFixed(3);
  document.getElementById("omega0").textContent = current.omega0.toFixed(3);
  document.getElementById("zeta").textContent = current.zeta.toFixed(3);
  draw();
}

async function addTrace() {
  await fetch("/api/traces", {method:"POST", headers:{"Content-Type":"application/json"}, body: JSON.stringify(body())});
  await refreshTraces();
}

async function clearTraces() {
  await fetch("/api/traces", {method:"DELETE"});
  await refreshTraces();
}

async function refreshTraces() {
  const res = await fetch("/api/traces");
  saved = res.ok ? await res.json() : [];
  const el = document.getElementById("traces");
  el.innerHTML = saved.map((t, i) =>
    "<span style=\"color:" + traceColors[i % traceColors.length] + "\">&#9656;</span> " +
    t.label.replace(/\*([^*]+)\*/g, "<em>$1</em>")).join("<br>");
  draw();
}

const traceColors = ["#ff9aff", "#ffd060", "#a0ff60", "#ff6060", "#6090ff", "#5fe0e0"];

function draw() {
  const c = document.getElementById("plot"), ctx = c.getContext("2d");
  ctx.clearRect(0, 0, c.width, c.height);
  if (!current && saved.length === 0) return;
  const curves = saved.map(t => ({ts: t.times, xs: t.xs}));
  if (current) curves.push({ts: current.times, xs: current.xs});
  let lo = 0, hi = 0, tMax = 0;
  for (const cu of curves) {
    lo = Math.min(lo, ...cu.xs); hi = Math.max(hi, ...cu.xs);
    tMax = Math.max(tMax, cu.ts[cu.ts.length-1]);
  }
  if (hi === lo) { hi = lo + 1; }
  const pad = (hi - lo) * 0.08; lo -= pad; hi += pad;
  const px = t => t / tMax * (c.width - 60) + 50;
  const py = x => c.height - 30 - (x - lo) / (hi - lo) * (c.height - 60);
  const line = cu => {
    ctx.beginPath();
    cu.xs.forEach((x, i) => i ? ctx.lineTo(px(cu.ts[i]), py(x)) : ctx.moveTo(px(cu.ts[i]), py(x)));
    ctx.stroke();
  };
  ctx.strokeStyle = "#303030";
  ctx.beginPath(); ctx.moveTo(px(0), py(0)); ctx.lineTo(px(tMax), py(0)); ctx.stroke();
  ctx.setLineDash([6, 4]);
  saved.forEach((t, i) => {
    ctx.strokeStyle = traceColors[i % traceColors.length];
    line({ts: t.times, xs: t.xs});
  });
  ctx.setLineDash([]);
  if (current) {
    ctx.strokeStyle = "#5fe0e0"; ctx.lineWidth = 2;
    line({ts: current.times, xs: current.xs});
    ctx.lineWidth = 1;
  }
}

function dl(kind) {
  const title = encodeURIComponent(document.getElementById("title").value);
  window.location = "/export/" + kind + "?title=" + title;
  return false;
}

solve();
refreshTraces();
</script>
</body>
</html>
`
