package render

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { margin: 0; background: #151515; font-family: "Segoe UI", sans-serif; }
  .grid { fill: url(#grid); }
  .node-body { fill: #0f0f0f; fill-opacity: 0.9; stroke: #000; stroke-width: 1; }
  .node.selected .node-body { stroke: #ffa500; stroke-width: 2; }
  .node.active .node-body { stroke: #ffffff; stroke-width: 2; }
  .comment .node-body { fill: #ffffff; fill-opacity: 0.05; stroke: #aaa; stroke-dasharray: 4 4; }
  .title { fill: #fff; font-size: 14px; font-weight: 600; }
  .subtitle { fill: #bbb; font-size: 11px; }
  .pin-label { fill: #ccc; font-size: 10px; }
  .pin-exec { fill: #fff; }
  .pin-data { fill: #4caf50; }
</style>
</head>
<body>
<svg xmlns="http://www.w3.org/2000/svg" width="{{num .Width}}" height="{{num .Height}}" viewBox="0 0 {{num .Width}} {{num .Height}}">
  <defs>
    <pattern id="grid" width="20" height="20" patternUnits="userSpaceOnUse">
      <path d="M 20 0 L 0 0 0 20" fill="none" stroke="#222" stroke-width="1"/>
    </pattern>
    <filter id="glow" x="-20%" y="-20%" width="140%" height="140%">
      <feGaussianBlur stdDeviation="3"/>
    </filter>
  </defs>
  <rect class="grid" width="100%" height="100%"/>

  <g class="nodes" transform="scale({{num .View.Zoom}}) translate({{num .View.PanX}} {{num .View.PanY}})">
  {{- range .Nodes}}
    <g class="node{{if .Comment}} comment{{end}}{{if .Selected}} selected{{end}}{{if .Active}} active{{end}}" id="{{.ID}}" transform="translate({{num .X}} {{num .Y}})">
      <rect class="node-body" width="{{num .W}}" height="{{num .H}}" rx="6"/>
      {{- if not .Comment}}
      <rect width="{{num .W}}" height="30" rx="6" fill="{{.HeaderColor}}"/>
      {{- end}}
      <text class="title" x="10" y="20">{{.Title}}</text>
      {{- if .Subtitle}}
      <text class="subtitle" x="10" y="{{num .SubtitleY}}">{{.Subtitle}}</text>
      {{- end}}
      {{- range .Pins}}
      <circle class="{{if .Data}}pin-data{{else}}pin-exec{{end}}" cx="{{num .X}}" cy="{{num .Y}}" r="5"/>
      {{- if .Label}}
      <text class="pin-label" x="{{num .X}}" y="{{num .Y}}" dx="{{if .Out}}-10{{else}}10{{end}}" dy="3" text-anchor="{{if .Out}}end{{else}}start{{end}}">{{.Label}}</text>
      {{- end}}
      {{- end}}
    </g>
  {{- end}}
  </g>

  <g class="wires" fill="none">
  {{- range .Wires}}
    {{- if .Stroke.Glow}}
    <path d="{{.Path}}" stroke="{{.Stroke.Glow}}" stroke-width="6" stroke-opacity="0.5" filter="url(#glow)"/>
    {{- end}}
    <path id="{{.ConnectionID}}" d="{{.Path}}" stroke="{{.Stroke.Color}}" stroke-width="{{num .Stroke.Width}}" stroke-opacity="{{num .Stroke.Opacity}}"{{if .Stroke.Dash}} stroke-dasharray="{{.Stroke.Dash}}"{{end}}/>
    {{- if .Stroke.Marker}}
    <circle r="4" fill="{{.Stroke.Color}}">
      <animateMotion dur="{{secs .Stroke.Marker}}" repeatCount="indefinite" path="{{.Path}}"/>
    </circle>
    {{- end}}
  {{- end}}
  {{- with .Pending}}
    <path class="pending" d="{{.Path}}" stroke="{{.Stroke.Color}}" stroke-width="{{num .Stroke.Width}}" stroke-dasharray="5, 5"/>
  {{- end}}
  </g>
</svg>
</body>
</html>
`
