// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package site

// Static assets for the browsable site. The page is fully client-driven:
// app.js loads assets/data.json and renders the card list, search box, and
// detail view.

const indexHTML = `<!DOCTYPE html>
<html lang="zh-CN">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Paper Ledger</title>
  <link rel="stylesheet" href="assets/style.css">
</head>
<body>
  <header>
    <h1>Paper Ledger</h1>
    <input id="search" type="search" placeholder="搜索标题或摘要…">
  </header>
  <main id="list"></main>
  <div id="detail" class="hidden">
    <div id="detail-card">
      <button id="detail-close">×</button>
      <h2 id="detail-title"></h2>
      <p id="detail-meta"></p>
      <div id="detail-body"></div>
    </div>
  </div>
  <script src="assets/app.js"></script>
</body>
</html>
`

const styleCSS = `:root { --fg: #1a1a1a; --muted: #667; --accent: #2457c5; --bg: #f7f8fa; }
* { box-sizing: border-box; }
body { margin: 0; font-family: system-ui, sans-serif; color: var(--fg); background: var(--bg); }
header { padding: 1rem 1.5rem; background: #fff; border-bottom: 1px solid #e2e4e8; display: flex; gap: 1rem; align-items: center; }
header h1 { margin: 0; font-size: 1.2rem; }
#search { flex: 1; max-width: 24rem; padding: 0.4rem 0.6rem; border: 1px solid #ccd; border-radius: 4px; }
#list { max-width: 56rem; margin: 1rem auto; padding: 0 1rem; }
.card { background: #fff; border: 1px solid #e2e4e8; border-radius: 6px; padding: 0.8rem 1rem; margin-bottom: 0.6rem; cursor: pointer; }
.card h3 { margin: 0 0 0.3rem; font-size: 1rem; }
.card .meta { color: var(--muted); font-size: 0.85rem; }
.card .pending { color: var(--muted); font-style: italic; }
#detail.hidden { display: none; }
#detail { position: fixed; inset: 0; background: rgba(0,0,0,0.4); display: flex; align-items: center; justify-content: center; }
#detail-card { background: #fff; max-width: 44rem; max-height: 85vh; overflow-y: auto; padding: 1.2rem 1.5rem; border-radius: 8px; position: relative; }
#detail-close { position: absolute; top: 0.6rem; right: 0.8rem; border: none; background: none; font-size: 1.4rem; cursor: pointer; }
#detail-body h2 { font-size: 1.05rem; border-bottom: 1px solid #eee; padding-bottom: 0.2rem; }
a { color: var(--accent); }
`

const appJS = `let DATA = [];

const list = document.getElementById('list');
const search = document.getElementById('search');
const detail = document.getElementById('detail');
const detailTitle = document.getElementById('detail-title');
const detailMeta = document.getElementById('detail-meta');
const detailBody = document.getElementById('detail-body');

function render() {
  const q = search.value.trim().toLowerCase();
  list.innerHTML = '';
  DATA.filter(it => !q || (it.title + ' ' + it.summary_markdown).toLowerCase().includes(q))
    .forEach(it => {
      const card = document.createElement('div');
      card.className = 'card';
      const state = it.summary_html ? '' : '<span class="pending">摘要待生成</span>';
      card.innerHTML = '<h3>' + escapeText(it.title) + '</h3>' +
        '<div class="meta">' + it.date + '</div>' + state;
      card.addEventListener('click', () => show(it));
      list.appendChild(card);
    });
}

function show(it) {
  detailTitle.textContent = it.title;
  detailMeta.innerHTML = it.date + ' · <a href="' + it.link + '" target="_blank" rel="noopener noreferrer">arXiv</a>';
  detailBody.innerHTML = it.summary_html || '<p>摘要待生成</p>';
  detail.classList.remove('hidden');
}

function escapeText(s) {
  const d = document.createElement('div');
  d.textContent = s;
  return d.innerHTML;
}

document.getElementById('detail-close').addEventListener('click', () => detail.classList.add('hidden'));
detail.addEventListener('click', e => { if (e.target === detail) detail.classList.add('hidden'); });
search.addEventListener('input', render);

fetch('assets/data.json').then(r => r.json()).then(arr => { DATA = arr; render(); });
`
