// Package tags serializes album-level and per-track metadata as Matroska XML
// tag documents.
//
// The per-track document is a pure projection of the same ordered track list
// the chapter timeline is generated from, so sample counts in tags and
// chapter offsets can never disagree. Free text passes through verbatim;
// XML entity escaping guarantees reserved markup characters round-trip.
package tags

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"

	"discmux/internal/disc"
	"discmux/internal/metadata"
)

const doctype = "<!DOCTYPE Tags SYSTEM \"matroskatags.dtd\">\n"

type document struct {
	XMLName xml.Name `xml:"Tags"`
	Tags    []tagElement `xml:"Tag"`
}

type tagElement struct {
	XMLName xml.Name `xml:"Tag"`
	Simples []simple `xml:"Simple"`
}

type simple struct {
	Name   string `xml:"Name"`
	String string `xml:"String"`
}

// RenderAlbum produces the global tag document: the fixed four-field album
// record.
func RenderAlbum(album metadata.Album) ([]byte, error) {
	doc := document{Tags: []tagElement{{Simples: []simple{
		{Name: "TITLE", String: album.Title},
		{Name: "ARTIST", String: album.Artist},
		{Name: "DATE_RECORDED", String: album.Year},
		{Name: "GENRE", String: album.Genre},
	}}}}
	return marshal(doc)
}

// RenderTracks produces the per-track tag document, one record per track in
// track order.
func RenderTracks(tracks []disc.Track) ([]byte, error) {
	doc := document{Tags: make([]tagElement, 0, len(tracks))}
	for _, track := range tracks {
		doc.Tags = append(doc.Tags, tagElement{Simples: []simple{
			{Name: "TITLE", String: track.Name},
			{Name: "PART_NUMBER", String: strconv.Itoa(track.Index)},
			{Name: "SAMPLES", String: strconv.FormatInt(track.SampleLength, 10)},
		}})
	}
	return marshal(doc)
}

func marshal(doc document) ([]byte, error) {
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal tags: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString(doctype)
	buf.Write(body)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// ParseAlbum reads a global tag document back into album fields.
func ParseAlbum(data []byte) (metadata.Album, error) {
	doc, err := unmarshal(data)
	if err != nil {
		return metadata.Album{}, err
	}
	if len(doc.Tags) != 1 {
		return metadata.Album{}, fmt.Errorf("album tag document must contain exactly one Tag, got %d", len(doc.Tags))
	}
	var album metadata.Album
	for _, s := range doc.Tags[0].Simples {
		switch s.Name {
		case "TITLE":
			album.Title = s.String
		case "ARTIST":
			album.Artist = s.String
		case "DATE_RECORDED":
			album.Year = s.String
		case "GENRE":
			album.Genre = s.String
		}
	}
	return album, nil
}

// ParseTracks reads a per-track tag document back into the track list.
func ParseTracks(data []byte) ([]disc.Track, error) {
	doc, err := unmarshal(data)
	if err != nil {
		return nil, err
	}
	tracks := make([]disc.Track, 0, len(doc.Tags))
	for i, tag := range doc.Tags {
		track := disc.Track{}
		for _, s := range tag.Simples {
			switch s.Name {
			case "TITLE":
				track.Name = s.String
			case "PART_NUMBER":
				index, err := strconv.Atoi(s.String)
				if err != nil {
					return nil, fmt.Errorf("tag %d: bad PART_NUMBER %q", i+1, s.String)
				}
				track.Index = index
			case "SAMPLES":
				samples, err := strconv.ParseInt(s.String, 10, 64)
				if err != nil {
					return nil, fmt.Errorf("tag %d: bad SAMPLES %q", i+1, s.String)
				}
				track.SampleLength = samples
			}
		}
		if track.Index != i+1 {
			return nil, fmt.Errorf("tag %d: PART_NUMBER %d out of order", i+1, track.Index)
		}
		tracks = append(tracks, track)
	}
	return tracks, nil
}

func unmarshal(data []byte) (document, error) {
	var doc document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return document{}, fmt.Errorf("parse tag document: %w", err)
	}
	return doc, nil
}
