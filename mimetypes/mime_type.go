package mimetypes

// Wire content types of the built-in descriptors.
const (
	MIMEAll = "*/*"

	// MIMEApplicationJSON JavaScript Object Notation (JSON) https://www.rfc-editor.org/rfc/rfc8259
	MIMEApplicationJSON     = "application/json"
	MIMETextJSON            = "text/x-json"
	MIMEApplicationJSONReq  = "application/jsonrequest"
	MIMEApplicationXML      = "application/xml"
	MIMETextXML             = "text/xml"
	MIMEApplicationXXML     = "application/x-xml"
	MIMEApplicationYaml     = "application/yaml"
	MIMEApplicationXYaml    = "application/x-yaml"
	MIMETextYaml            = "text/yaml"
	MIMEApplicationToml     = "application/toml"
	MIMEApplicationMsgpack  = "application/msgpack"
	MIMEApplicationXMsgpack = "application/x-msgpack"
	MIMEApplicationProtobuf = "application/protobuf"
	MIMEApplicationXProto   = "application/x-protobuf"
	MIMETextEventStream     = "text/event-stream"

	MIMETextHTML              = "text/html"
	MIMEApplicationXHTML      = "application/xhtml+xml"
	MIMETextPlain             = "text/plain"
	MIMETextJavaScript        = "text/javascript"
	MIMEApplicationJavaScript = "application/javascript"
	MIMETextCSS               = "text/css"
	MIMETextCSV               = "text/csv"

	MIMEApplicationForm = "application/x-www-form-urlencoded"
	MIMEMultipartForm   = "multipart/form-data"

	MIMEApplicationPDF  = "application/pdf"
	MIMEApplicationZip  = "application/zip"
	MIMEApplicationGzip = "application/gzip"
	MIMEOctetStream     = "application/octet-stream"
	MIMEImagePNG        = "image/png"
	MIMEImageJPEG       = "image/jpeg"
	MIMEImageGIF        = "image/gif"
	MIMEImageSVG        = "image/svg+xml"
	MIMEImageWebP       = "image/webp"
)

// Transform identifiers of the built-in descriptors.
const (
	TransformJSON        = "to_json"
	TransformXML         = "to_xml"
	TransformYAML        = "to_yaml"
	TransformTOML        = "to_toml"
	TransformMsgPack     = "to_msgpack"
	TransformProtoBuf    = "to_protobuf"
	TransformText        = "to_text"
	TransformEventStream = "to_event_stream"
)

const charsetUTF8 = "utf-8"

type builtin struct {
	key       string
	transform string
	accepts   []string
	headers   map[string]string
}

var builtins = []builtin{
	{"html", NoTransform, []string{MIMETextHTML, MIMEApplicationXHTML}, map[string]string{"charset": charsetUTF8}},
	{"text", TransformText, []string{MIMETextPlain}, map[string]string{"charset": charsetUTF8}},
	{"js", NoTransform, []string{MIMETextJavaScript, MIMEApplicationJavaScript, "application/x-javascript"}, map[string]string{"charset": charsetUTF8}},
	{"css", NoTransform, []string{MIMETextCSS}, map[string]string{"charset": charsetUTF8}},
	{"csv", NoTransform, []string{MIMETextCSV}, map[string]string{"charset": charsetUTF8}},
	{"xml", TransformXML, []string{MIMEApplicationXML, MIMETextXML, MIMEApplicationXXML}, map[string]string{"charset": charsetUTF8}},
	// RFC 8259 defines no charset parameter for JSON.
	{"json", TransformJSON, []string{MIMEApplicationJSON, MIMETextJSON, MIMEApplicationJSONReq}, nil},
	{"yaml", TransformYAML, []string{MIMEApplicationYaml, MIMEApplicationXYaml, MIMETextYaml}, map[string]string{"charset": charsetUTF8}},
	{"toml", TransformTOML, []string{MIMEApplicationToml}, map[string]string{"charset": charsetUTF8}},
	{"msgpack", TransformMsgPack, []string{MIMEApplicationMsgpack, MIMEApplicationXMsgpack}, nil},
	{"protobuf", TransformProtoBuf, []string{MIMEApplicationProtobuf, MIMEApplicationXProto}, nil},
	{"event_stream", TransformEventStream, []string{MIMETextEventStream}, map[string]string{"charset": charsetUTF8, "Cache-Control": "no-cache"}},
	{"url_encoded_form", NoTransform, []string{MIMEApplicationForm}, nil},
	{"multipart_form", NoTransform, []string{MIMEMultipartForm}, nil},
	{"pdf", NoTransform, []string{MIMEApplicationPDF}, nil},
	{"zip", NoTransform, []string{MIMEApplicationZip}, nil},
	{"gzip", NoTransform, []string{MIMEApplicationGzip, "application/x-gzip"}, nil},
	{"png", NoTransform, []string{MIMEImagePNG}, nil},
	{"jpeg", NoTransform, []string{MIMEImageJPEG}, nil},
	{"gif", NoTransform, []string{MIMEImageGIF}, nil},
	{"svg", NoTransform, []string{MIMEImageSVG}, nil},
	{"webp", NoTransform, []string{MIMEImageWebP}, nil},
	{"octet_stream", NoTransform, []string{MIMEOctetStream}, nil},
}

// Default returns a registry holding the catch-all type and the built-in
// web formats (html, json, xml, yaml, toml, msgpack, protobuf, ...).
func Default() *Registry {
	r := New()
	for _, b := range builtins {
		r.MustRegister(b.key, b.transform, b.accepts, WithHeaders(b.headers))
	}
	return r
}
