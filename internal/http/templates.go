package http

import "html/template"

var pages = template.Must(template.New("pages").Parse(`
{{define "header"}}<!doctype html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>{{.Title}} · Sistema de Inventario</title>
<style>
body{font-family:system-ui,sans-serif;margin:0;background:#fafafa}
nav{background:#1e1e1e;color:#fff;padding:12px 24px;display:flex;justify-content:space-between;align-items:center}
nav form{display:inline}
main{max-width:720px;margin:40px auto;background:#fff;padding:32px;border-radius:8px;box-shadow:0 2px 8px rgba(0,0,0,.1)}
.alert{padding:12px;border-radius:4px;margin-bottom:16px}
.error{background:#fdecea;color:#611a15}
.info{background:#e8f4fd;color:#0d3c61}
label{display:block;margin-top:12px}
input{width:100%;padding:8px;box-sizing:border-box}
button{margin-top:16px;padding:10px 20px;background:#1976d2;color:#fff;border:0;border-radius:4px;cursor:pointer}
table{width:100%;border-collapse:collapse}
th,td{text-align:left;padding:8px;border-bottom:1px solid #eee}
</style>
</head>
<body>
{{end}}

{{define "footer"}}</body>
</html>
{{end}}

{{define "login"}}{{template "header" .}}
<main>
<h1>Iniciar Sesión</h1>
<p>Accede a tu cuenta del sistema de inventario</p>
{{if .Error}}<div class="alert error">{{.Error}}</div>{{end}}
<form method="post" action="/login">
<label>Email <input type="email" name="email" value="{{.Email}}" required></label>
<label>Contraseña <input type="password" name="password" required></label>
<button type="submit">Iniciar Sesión</button>
</form>
</main>
{{template "footer" .}}{{end}}

{{define "dashboard"}}{{template "header" .}}
<nav>
<strong>Sistema de Inventario</strong>
<span>{{.UserName}}
<form method="post" action="/logout"><button type="submit">Salir</button></form>
</span>
</nav>
<main>
<h1>¡Bienvenido {{.UserName}}!</h1>
<p>Has iniciado sesión correctamente</p>
{{if .ExpiresAt}}<p>La sesión expira el {{.ExpiresAt}}</p>{{end}}
<h2>Lista de Usuarios ({{len .Users}})</h2>
{{if .Error}}<div class="alert error">{{.Error}}</div>
{{else if not .Users}}<div class="alert info">No hay usuarios registrados</div>
{{else}}
<table>
<thead><tr><th>ID</th><th>Nombre</th><th>Apellido</th><th>Email</th></tr></thead>
<tbody>
{{range .Users}}<tr><td>{{.ID}}</td><td>{{.FirstName}}</td><td>{{.LastName}}</td><td>{{.Email}}</td></tr>
{{end}}</tbody>
</table>
{{end}}
<form method="post" action="/logout"><button type="submit">Cerrar Sesión</button></form>
</main>
{{template "footer" .}}{{end}}
`))
