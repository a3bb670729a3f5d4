package docx

import (
	"encoding/xml"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/ByLCY/docflow/layout"
)

type relationships struct {
	XMLName       xml.Name       `xml:"Relationships"`
	Xmlns         string         `xml:"xmlns,attr"`
	Relationships []relationship `xml:"Relationship"`
}

type relationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

func packageRels() relationships {
	return relationships{Xmlns: relsNS, Relationships: []relationship{
		{ID: "rId1", Type: officeRel + "officeDocument", Target: "word/document.xml"},
		{ID: "rId2", Type: packageRel + "metadata/core-properties", Target: "docProps/core.xml"},
		{ID: "rId3", Type: officeRel + "extended-properties", Target: "docProps/app.xml"},
	}}
}

func documentRels(media []layout.Media) relationships {
	rels := relationships{Xmlns: relsNS, Relationships: []relationship{
		{ID: "rIdStyles", Type: officeRel + "styles", Target: "styles.xml"},
	}}
	for i, m := range media {
		rels.Relationships = append(rels.Relationships, relationship{ID: m.RelID, Type: officeRel + "image", Target: mediaName(i, m)})
	}
	return rels
}

type contentTypeSet struct {
	XMLName   xml.Name      `xml:"Types"`
	Xmlns     string        `xml:"xmlns,attr"`
	Defaults  []defaultType `xml:"Default"`
	Overrides []overrideType `xml:"Override"`
}

type defaultType struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type overrideType struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

func contentTypes(media []layout.Media) contentTypeSet {
	set := contentTypeSet{
		Xmlns: contentTypesNS,
		Defaults: []defaultType{
			{Extension: "rels", ContentType: "application/vnd.openxmlformats-package.relationships+xml"},
			{Extension: "xml", ContentType: "application/xml"},
		},
		Overrides: []overrideType{
			{PartName: "/word/document.xml", ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"},
			{PartName: "/word/styles.xml", ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"},
			{PartName: "/docProps/core.xml", ContentType: "application/vnd.openxmlformats-package.core-properties+xml"},
			{PartName: "/docProps/app.xml", ContentType: "application/vnd.openxmlformats-officedocument.extended-properties+xml"},
		},
	}
	formats := lo.Uniq(lo.Map(media, func(m layout.Media, _ int) string {
		return lo.Ternary(m.Format == "", "png", m.Format)
	}))
	for _, f := range formats {
		ct, ok := mediaTypes[f]
		if !ok {
			ct = "image/" + f
		}
		set.Defaults = append(set.Defaults, defaultType{Extension: f, ContentType: ct})
	}
	return set
}

type w3cdtf struct {
	Type  string `xml:"xsi:type,attr"`
	Value string `xml:",chardata"`
}

type coreProperties struct {
	XMLName  xml.Name `xml:"cp:coreProperties"`
	CP       string   `xml:"xmlns:cp,attr"`
	DC       string   `xml:"xmlns:dc,attr"`
	DCTerms  string   `xml:"xmlns:dcterms,attr"`
	XSI      string   `xml:"xmlns:xsi,attr"`
	Title    string   `xml:"dc:title,omitempty"`
	Subject  string   `xml:"dc:subject,omitempty"`
	Creator  string   `xml:"dc:creator,omitempty"`
	Keywords string   `xml:"cp:keywords,omitempty"`
	Created  w3cdtf   `xml:"dcterms:created"`
	Modified w3cdtf   `xml:"dcterms:modified"`
}

func coreProps(meta layout.DocumentMeta, now time.Time) coreProperties {
	stamp := w3cdtf{Type: "dcterms:W3CDTF", Value: now.Format(time.RFC3339)}
	return coreProperties{
		CP:       "http://schemas.openxmlformats.org/package/2006/metadata/core-properties",
		DC:       "http://purl.org/dc/elements/1.1/",
		DCTerms:  "http://purl.org/dc/terms/",
		XSI:      "http://www.w3.org/2001/XMLSchema-instance",
		Title:    meta.Title,
		Subject:  meta.Subject,
		Creator:  meta.Author,
		Keywords: strings.Join(meta.Keywords, ", "),
		Created:  stamp,
		Modified: stamp,
	}
}

type appProperties struct {
	XMLName     xml.Name `xml:"Properties"`
	Xmlns       string   `xml:"xmlns,attr"`
	Application string   `xml:"Application"`
	// Pages 是布局估算的页数，文字处理软件打开后会重新计算。
	Pages string `xml:"Pages"`
}

func appProps(application string, pages int) appProperties {
	return appProperties{
		Xmlns:       "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties",
		Application: application,
		Pages:       strconv.Itoa(pages),
	}
}
