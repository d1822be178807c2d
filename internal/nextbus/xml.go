package nextbus

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/Pa-nts/topperbus/internal/geo"
)

// The upstream feed is an XML attribute protocol. Attributes are decoded as
// strings and converted leniently: a missing or malformed attribute becomes
// the zero value for its type rather than failing the whole payload.

type xmlBody struct {
	XMLName     xml.Name         `xml:"body"`
	Error       *xmlError        `xml:"Error"`
	Routes      []xmlRoute       `xml:"route"`
	Vehicles    []xmlVehicle     `xml:"vehicle"`
	Predictions []xmlPredictions `xml:"predictions"`
}

type xmlError struct {
	ShouldRetry string `xml:"shouldRetry,attr"`
	Text        string `xml:",chardata"`
}

type xmlRoute struct {
	Tag           string         `xml:"tag,attr"`
	Title         string         `xml:"title,attr"`
	Color         string         `xml:"color,attr"`
	OppositeColor string         `xml:"oppositeColor,attr"`
	LatMin        string         `xml:"latMin,attr"`
	LatMax        string         `xml:"latMax,attr"`
	LonMin        string         `xml:"lonMin,attr"`
	LonMax        string         `xml:"lonMax,attr"`
	Stops         []xmlStop      `xml:"stop"`
	Directions    []xmlDirection `xml:"direction"`
	Paths         []xmlPath      `xml:"path"`
}

type xmlStop struct {
	Tag        string `xml:"tag,attr"`
	Title      string `xml:"title,attr"`
	ShortTitle string `xml:"shortTitle,attr"`
	Lat        string `xml:"lat,attr"`
	Lon        string `xml:"lon,attr"`
	StopID     string `xml:"stopId,attr"`
}

type xmlDirection struct {
	Tag      string    `xml:"tag,attr"`
	Title    string    `xml:"title,attr"`
	Name     string    `xml:"name,attr"`
	UseForUI string    `xml:"useForUI,attr"`
	Stops    []xmlStop `xml:"stop"`
}

type xmlPath struct {
	Points []xmlPoint `xml:"point"`
}

type xmlPoint struct {
	Lat string `xml:"lat,attr"`
	Lon string `xml:"lon,attr"`
}

type xmlVehicle struct {
	ID              string `xml:"id,attr"`
	RouteTag        string `xml:"routeTag,attr"`
	DirTag          string `xml:"dirTag,attr"`
	Lat             string `xml:"lat,attr"`
	Lon             string `xml:"lon,attr"`
	Heading         string `xml:"heading,attr"`
	SpeedKmHr       string `xml:"speedKmHr,attr"`
	SecsSinceReport string `xml:"secsSinceReport,attr"`
	Predictable     string `xml:"predictable,attr"`
}

type xmlPredictions struct {
	AgencyTitle string                   `xml:"agencyTitle,attr"`
	RouteTag    string                   `xml:"routeTag,attr"`
	RouteTitle  string                   `xml:"routeTitle,attr"`
	StopTag     string                   `xml:"stopTag,attr"`
	StopTitle   string                   `xml:"stopTitle,attr"`
	Directions  []xmlPredictionDirection `xml:"direction"`
	Messages    []xmlMessage             `xml:"message"`
}

type xmlPredictionDirection struct {
	Title       string          `xml:"title,attr"`
	Predictions []xmlPrediction `xml:"prediction"`
}

type xmlPrediction struct {
	Minutes           string `xml:"minutes,attr"`
	Seconds           string `xml:"seconds,attr"`
	EpochTime         string `xml:"epochTime,attr"`
	Vehicle           string `xml:"vehicle,attr"`
	Block             string `xml:"block,attr"`
	DirTag            string `xml:"dirTag,attr"`
	IsDeparture       string `xml:"isDeparture,attr"`
	AffectedByLayover string `xml:"affectedByLayover,attr"`
}

type xmlMessage struct {
	Text string `xml:"text,attr"`
}

func attrFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

func attrInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func attrInt64(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func attrBool(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}

func (r xmlRoute) toRoute() Route {
	route := Route{
		Tag:           r.Tag,
		Title:         r.Title,
		Color:         r.Color,
		OppositeColor: r.OppositeColor,
		LatMin:        attrFloat(r.LatMin),
		LatMax:        attrFloat(r.LatMax),
		LonMin:        attrFloat(r.LonMin),
		LonMax:        attrFloat(r.LonMax),
	}

	for _, s := range r.Stops {
		route.Stops = append(route.Stops, s.toStop())
	}

	for _, d := range r.Directions {
		dir := Direction{
			Tag:      d.Tag,
			Title:    d.Title,
			Name:     d.Name,
			UseForUI: attrBool(d.UseForUI),
		}
		for _, s := range d.Stops {
			dir.StopTags = append(dir.StopTags, s.Tag)
		}
		route.Directions = append(route.Directions, dir)
	}

	for _, p := range r.Paths {
		var points []geo.Point
		for _, pt := range p.Points {
			points = append(points, geo.Point{Lat: attrFloat(pt.Lat), Lon: attrFloat(pt.Lon)})
		}
		route.Paths = append(route.Paths, points)
	}

	return route
}

func (s xmlStop) toStop() Stop {
	return Stop{
		Tag:        s.Tag,
		Title:      s.Title,
		ShortTitle: s.ShortTitle,
		Lat:        attrFloat(s.Lat),
		Lon:        attrFloat(s.Lon),
		StopID:     s.StopID,
	}
}

func (v xmlVehicle) toVehicleLocation() VehicleLocation {
	return VehicleLocation{
		ID:              v.ID,
		RouteTag:        v.RouteTag,
		DirTag:          v.DirTag,
		Lat:             attrFloat(v.Lat),
		Lon:             attrFloat(v.Lon),
		Heading:         attrInt(v.Heading),
		SpeedKmHr:       attrFloat(v.SpeedKmHr),
		SecsSinceReport: attrInt(v.SecsSinceReport),
		Predictable:     attrBool(v.Predictable),
	}
}

func (p xmlPredictions) toStopPredictions() StopPredictions {
	sp := StopPredictions{
		AgencyTitle: p.AgencyTitle,
		RouteTag:    p.RouteTag,
		RouteTitle:  p.RouteTitle,
		StopTag:     p.StopTag,
		StopTitle:   p.StopTitle,
	}

	for _, d := range p.Directions {
		dir := PredictionDirection{Title: d.Title}
		for _, pr := range d.Predictions {
			dir.Predictions = append(dir.Predictions, Prediction{
				Minutes:           attrInt(pr.Minutes),
				Seconds:           attrInt(pr.Seconds),
				EpochTime:         attrInt64(pr.EpochTime),
				VehicleID:         pr.Vehicle,
				Block:             pr.Block,
				DirTag:            pr.DirTag,
				IsDeparture:       attrBool(pr.IsDeparture),
				AffectedByLayover: attrBool(pr.AffectedByLayover),
			})
		}
		sp.Directions = append(sp.Directions, dir)
	}

	for _, m := range p.Messages {
		if m.Text != "" {
			sp.Messages = append(sp.Messages, m.Text)
		}
	}

	return sp
}
