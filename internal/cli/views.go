package cli

import (
	"encoding/xml"
	"strconv"
	"strings"

	"gin-mime/mimetypes"
)

// typeView is the printed form of one registered type.
type typeView struct {
	Key         string   `json:"key" yaml:"key" toml:"key" xml:"key,attr" msgpack:"key"`
	Transform   string   `json:"transform,omitempty" yaml:"transform,omitempty" toml:"transform,omitempty" xml:"transform,attr,omitempty" msgpack:"transform,omitempty"`
	ContentType string   `json:"content_type" yaml:"content_type" toml:"content_type" xml:"content-type" msgpack:"content_type"`
	Accepts     []string `json:"accepts" yaml:"accepts" toml:"accepts" xml:"accept" msgpack:"accepts"`
	Quality     float64  `json:"quality" yaml:"quality" toml:"quality" xml:"quality" msgpack:"quality"`
}

type typeList struct {
	XMLName xml.Name   `json:"-" yaml:"-" toml:"-" xml:"types" msgpack:"-"`
	Types   []typeView `json:"types" yaml:"types" toml:"types" xml:"type" msgpack:"types"`
}

func newTypeList(reg *mimetypes.Registry) typeList {
	var list typeList
	for _, key := range reg.Keys() {
		d, ok := reg.Lookup(key)
		if !ok {
			continue
		}
		list.Types = append(list.Types, typeView{
			Key:         d.Key,
			Transform:   d.Transform,
			ContentType: d.ContentType,
			Accepts:     d.Accepts,
			Quality:     d.DefaultQuality,
		})
	}
	return list
}

func (l typeList) String() string {
	rows := make([][]string, 0, len(l.Types))
	for _, t := range l.Types {
		rows = append(rows, []string{
			t.Key,
			t.Transform,
			t.ContentType,
			strings.Join(t.Accepts, ", "),
			formatQuality(t.Quality),
		})
	}
	return renderTable([]string{"KEY", "TRANSFORM", "CONTENT TYPE", "ACCEPTS", "Q"}, rows)
}

type candidateView struct {
	Key         string  `json:"key" yaml:"key" toml:"key" xml:"key,attr" msgpack:"key"`
	Quality     float64 `json:"quality" yaml:"quality" toml:"quality" xml:"quality,attr" msgpack:"quality"`
	ContentType string  `json:"content_type" yaml:"content_type" toml:"content_type" xml:"content-type" msgpack:"content_type"`
}

type resolution struct {
	XMLName    xml.Name        `json:"-" yaml:"-" toml:"-" xml:"resolution" msgpack:"-"`
	Accept     string          `json:"accept" yaml:"accept" toml:"accept" xml:"accept,attr" msgpack:"accept"`
	Candidates []candidateView `json:"candidates" yaml:"candidates" toml:"candidates" xml:"candidate" msgpack:"candidates"`
}

func newResolution(reg *mimetypes.Registry, accept string) resolution {
	res := resolution{Accept: accept}
	for _, c := range reg.Resolve(accept) {
		view := candidateView{Key: c.Key, Quality: c.Quality}
		if d, ok := reg.Lookup(c.Key); ok {
			view.ContentType = d.ContentType
		}
		res.Candidates = append(res.Candidates, view)
	}
	return res
}

func (r resolution) String() string {
	rows := make([][]string, 0, len(r.Candidates))
	for _, c := range r.Candidates {
		rows = append(rows, []string{c.Key, formatQuality(c.Quality), c.ContentType})
	}
	return renderTable([]string{"KEY", "Q", "CONTENT TYPE"}, rows)
}

type detection struct {
	File        string `json:"file" yaml:"file" toml:"file" xml:"file,attr" msgpack:"file"`
	Key         string `json:"key" yaml:"key" toml:"key" xml:"key,attr" msgpack:"key"`
	ContentType string `json:"content_type" yaml:"content_type" toml:"content_type" xml:"content-type" msgpack:"content_type"`
}

type detectionList struct {
	XMLName xml.Name    `json:"-" yaml:"-" toml:"-" xml:"detections" msgpack:"-"`
	Files   []detection `json:"files" yaml:"files" toml:"files" xml:"detection" msgpack:"files"`
}

func (l detectionList) String() string {
	rows := make([][]string, 0, len(l.Files))
	for _, d := range l.Files {
		rows = append(rows, []string{d.File, d.Key, d.ContentType})
	}
	return renderTable([]string{"FILE", "KEY", "CONTENT TYPE"}, rows)
}

type transformView struct {
	XMLName   xml.Name `json:"-" yaml:"-" toml:"-" xml:"transform" msgpack:"-"`
	Key       string   `json:"key" yaml:"key" toml:"key" xml:"key,attr" msgpack:"key"`
	Transform string   `json:"transform" yaml:"transform" toml:"transform" xml:",chardata" msgpack:"transform"`
}

func (v transformView) String() string {
	if v.Transform == mimetypes.NoTransform {
		return "(none)"
	}
	return v.Transform
}

func formatQuality(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}
