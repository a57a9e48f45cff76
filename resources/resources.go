// Package resources renders the informational pages served on the reserved
// paths.
package resources

import (
	"fmt"
	"html"
	"net/url"
	"strings"
)

// NoScriptPathQueryParameterName is the query parameter carrying the
// transfer path on the /noscript form page.
const NoScriptPathQueryParameterName = "path"

func Index() string {
	return `<html>
<head>
  <title>Piping Server</title>
  <meta name="viewport" content="width=device-width,initial-scale=1">
</head>
<body>
  <h1>Piping Server</h1>
  <p>Streaming data transfer between every device over pure HTTP.</p>
  <h3>Send</h3>
  <input type="file" id="file_input">
  <br>
  <input type="text" id="file_send_path" placeholder="Send path">
  <br>
  <button onclick="sendFile()">Send</button>
  <progress id="send_progress" value="0" max="100" style="display: none"></progress>
  <div id="message"></div>
  <hr>
  <a href="/noscript?path=mypath">Transfer without JavaScript</a>
  <script>
    function sendFile() {
      var files = document.getElementById("file_input").files;
      if (files.length === 0) {
        alert("Select a file to send.");
        return;
      }
      var path = document.getElementById("file_send_path").value;
      if (path === "") {
        alert("Input a send path.");
        return;
      }
      var progress = document.getElementById("send_progress");
      progress.style.display = "inline";
      var xhr = new XMLHttpRequest();
      xhr.open("POST", "/" + path, true);
      xhr.upload.onprogress = function (e) {
        progress.value = e.loaded / e.total * 100;
      };
      xhr.onreadystatechange = function () {
        if (xhr.readyState === XMLHttpRequest.DONE) {
          document.getElementById("message").textContent = xhr.responseText;
        }
      };
      xhr.send(files[0]);
    }
  </script>
</body>
</html>
`
}

// NoScriptHTML renders the no-JavaScript transfer form. With an empty path it
// asks for one; otherwise it renders a multipart upload form posting to the
// path. The path is HTML-escaped before embedding.
func NoScriptHTML(path string) string {
	if path == "" {
		return fmt.Sprintf(`<html>
<head>
  <title>Transfer - Piping Server</title>
  <meta name="viewport" content="width=device-width,initial-scale=1">
</head>
<body>
  <h2>Piping Server (no JavaScript)</h2>
  <form method="GET" action="/noscript">
    <input type="text" name="%s" placeholder="Send path">
    <input type="submit" value="Next">
  </form>
</body>
</html>
`, NoScriptPathQueryParameterName)
	}
	escapedPath := html.EscapeString(path)
	return fmt.Sprintf(`<html>
<head>
  <title>Transfer - Piping Server</title>
  <meta name="viewport" content="width=device-width,initial-scale=1">
</head>
<body>
  <h2>Send to '%s'</h2>
  <form method="POST" action="/%s" enctype="multipart/form-data">
    <input type="file" name="input_file">
    <input type="submit" value="Send">
  </form>
</body>
</html>
`, escapedPath, escapedPath)
}

// Help renders the help text against the server's base URL.
func Help(baseURL *url.URL) string {
	base := strings.TrimSuffix(baseURL.String(), "/")
	return fmt.Sprintf(`Help for piping-server
(Repository: https://github.com/Cj-bc/piping-server)

======= Get  =======
curl %s/mypath

======= Send =======
# Send a file
curl -T myfile %s/mypath

# Send a text
echo 'hello!' | curl -T - %s/mypath

# Send a directory (tar)
tar zfcp - ./mydir | curl -T - %s/mypath

# Send a directory (zip)
zip -q -r - ./mydir | curl -T - %s/mypath
`, base, base, base, base, base)
}
