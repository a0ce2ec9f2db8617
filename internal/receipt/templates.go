package receipt

import "html/template"

const printCSS = `<style>
@page { size: 80mm auto; margin: 0; }
body { margin: 0; font-family: "DejaVu Sans Mono", monospace; font-size: 12px; }
.receipt { width: 72mm; padding: 4mm; }
.center { text-align: center; }
.bold { font-weight: bold; }
.small { font-size: 10px; }
.row { display: flex; justify-content: space-between; gap: 4px; }
.row .name { flex: 1; }
.row .amt { white-space: nowrap; }
.hr { border-top: 1px dashed #000; margin: 6px 0; }
.warn { font-size: 10px; text-align: center; margin-top: 6px; }
</style>`

// Opening the page in the print window triggers the dialog and closes it.
const printScript = `<script>window.onload=()=>{ setTimeout(()=>{ window.print(); window.close(); }, 80) };</script>`

var receiptTmpl = template.Must(template.New("receipt").Parse(`<!doctype html>
<html><head><meta charset="utf-8"><title>{{.Title}}</title>` + printCSS + `</head>
<body><div class="receipt">
<div class="center bold">{{.Shop.Name}}</div>
{{- if .Shop.Address}}
<div class="center small">{{.Shop.Address}}</div>
{{- end}}
<div class="center bold">{{.Title}}</div>
<div class="row small"><div>{{.Meta.Label}}</div><div>{{.When}}</div></div>
{{- if .Meta.ReceiptNo}}
<div class="small">Br: {{.Meta.ReceiptNo}}</div>
{{- end}}
<div class="hr"></div>
{{- range .Lines}}
<div class="row"><div class="name">{{.Name}}</div></div>
<div class="row small"><div>{{.Qty}} × {{.Unit}}</div><div class="amt">{{.Amount}}</div></div>
{{- else}}
<div class="center small">{{.Empty}}</div>
{{- end}}
<div class="hr"></div>
<div class="row bold"><div>UKUPNO</div><div class="amt">{{.Total}}</div></div>
<div class="hr"></div>
<div class="center">{{.Shop.Footer}}</div>
<div class="warn">{{.Warning}}</div>
</div>
` + printScript + `
</body></html>
`))

var shiftTmpl = template.Must(template.New("shift").Parse(`<!doctype html>
<html><head><meta charset="utf-8"><title>Presek smene</title>` + printCSS + `</head>
<body><div class="receipt">
<div class="center bold">{{.Shop.Name}}</div>
<div class="center bold">PRESEK SMENE</div>
<div class="center small">Od: {{.Since}} – Do: {{.Until}}</div>
<div class="hr"></div>
<div class="row"><div>Ukupan promet</div><div class="bold">{{.Total}}</div></div>
<div class="row"><div>Ukupno artikala</div><div class="bold">{{.Count}}</div></div>
<div class="hr"></div>
<div class="center small bold">ARTIKLI</div>
<div class="row small"><div class="name">Artikal</div><div>Kol × Cena</div><div class="amt">Ukupno</div></div>
{{- range .Items}}
<div class="row"><div class="name">{{.Name}}</div><div>{{.Unit}}</div><div class="amt">{{.Amount}}</div></div>
{{- else}}
<div class="small">Nema podataka o artiklima.</div>
{{- end}}
<div class="hr"></div>
<div class="center small">Štampano: {{.Printed}}</div>
</div>
` + printScript + `
</body></html>
`))
