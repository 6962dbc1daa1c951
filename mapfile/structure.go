// seehuhn.de/go/carto - a cartographic rendering library
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.


package mapfile

import "encoding/xml"

// mapXML is the root element of a map file.
type mapXML struct {
	XMLName    xml.Name   `xml:"Map"`
	Width      int        `xml:"width,attr"`
	Height     int        `xml:"height,attr"`
	SRID       int        `xml:"srid,attr,omitempty"`
	Background string     `xml:"background-color,attr,omitempty"`
	Extent     string     `xml:"extent,attr,omitempty"`
	Styles     []styleXML `xml:"Style"`
	Layers     []layerXML `xml:"Layer"`
}

// styleXML describes a named style. Scale-tagged symbolizers are listed
// directly in the style, rules follow.
type styleXML struct {
	Name        string      `xml:"name,attr"`
	Symbolizers []scaledXML `xml:"Symbolizer"`
	Rules       []ruleXML   `xml:"Rule"`
}

// scaledXML wraps a single symbolizer which is active for scale
// denominators strictly between MinScale and MaxScale.
type scaledXML struct {
	MinScale string       `xml:"min-scale,attr,omitempty"`
	MaxScale string       `xml:"max-scale,attr,omitempty"`
	Items    []elementXML `xml:",any"`
}

type ruleXML struct {
	Name     string    `xml:"name,attr,omitempty"`
	Title    string    `xml:"Title,omitempty"`
	Abstract string    `xml:"Abstract,omitempty"`
	MinScale string    `xml:"MinScaleDenominator,omitempty"`
	MaxScale string    `xml:"MaxScaleDenominator,omitempty"`
	Filter   string    `xml:"Filter,omitempty"`
	Else     *struct{} `xml:"ElseFilter"`

	// Symbolizers keeps the remaining child elements in document order.
	Symbolizers []elementXML `xml:",any"`
}

// elementXML is a symbolizer element with its attributes.
type elementXML struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
}

func (e *elementXML) attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

type layerXML struct {
	Name           string         `xml:"name,attr"`
	Title          string         `xml:"Title,omitempty"`
	Abstract       string         `xml:"Abstract,omitempty"`
	Status         string         `xml:"status,attr,omitempty"`
	MinZoom        string         `xml:"minzoom,attr,omitempty"`
	MaxZoom        string         `xml:"maxzoom,attr,omitempty"`
	Selectable     bool           `xml:"selectable,attr,omitempty"`
	SelectionStyle string         `xml:"selection-style,attr,omitempty"`
	StyleNames     []string       `xml:"StyleName"`
	Datasource     *datasourceXML `xml:"Datasource"`
}

// datasourceXML either refers to a data source which is already
// registered, by name, or lists the parameters of a new one.
type datasourceXML struct {
	Name       string         `xml:"name,attr,omitempty"`
	Parameters []parameterXML `xml:"Parameter"`
}

type parameterXML struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}
