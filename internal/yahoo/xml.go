package yahoo

import "encoding/xml"

// Yahoo Fantasy v2 response documents, reduced to the fields the client reads

type fantasyContent struct {
	XMLName xml.Name   `xml:"fantasy_content"`
	Users   []xmlUser  `xml:"users>user"`
	League  *xmlLeague `xml:"league"`
	Team    *xmlTeam   `xml:"team"`
}

type xmlUser struct {
	Games []xmlGame `xml:"games>game"`
}

type xmlGame struct {
	GameKey string      `xml:"game_key"`
	Code    string      `xml:"code"`
	Season  string      `xml:"season"`
	Leagues []xmlLeague `xml:"leagues>league"`
}

type xmlLeague struct {
	LeagueKey string      `xml:"league_key"`
	Name      string      `xml:"name"`
	Teams     []xmlTeam   `xml:"teams>team"`
	Players   []xmlPlayer `xml:"players>player"`
}

type xmlTeam struct {
	TeamKey   string      `xml:"team_key"`
	Name      string      `xml:"name"`
	IsOwnedBy int         `xml:"is_owned_by_current_login"`
	Players   []xmlPlayer `xml:"roster>players>player"`
}

type xmlPlayer struct {
	PlayerKey string    `xml:"player_key"`
	PlayerID  string    `xml:"player_id"`
	Name      string    `xml:"name>full"`
	Status    string    `xml:"status"`
	Positions []string  `xml:"eligible_positions>position"`
	Stats     []xmlStat `xml:"player_stats>stats>stat"`
}

type xmlStat struct {
	StatID string `xml:"stat_id"`
	Value  string `xml:"value"`
}

// add/drop transaction request

type transactionDoc struct {
	XMLName     xml.Name       `xml:"fantasy_content"`
	Transaction xmlTransaction `xml:"transaction"`
}

type xmlTransaction struct {
	Type    string           `xml:"type"`
	Players []xmlTransPlayer `xml:"players>player"`
}

type xmlTransPlayer struct {
	PlayerKey string       `xml:"player_key"`
	Data      xmlTransData `xml:"transaction_data"`
}

type xmlTransData struct {
	Type               string `xml:"type"`
	DestinationTeamKey string `xml:"destination_team_key,omitempty"`
	SourceTeamKey      string `xml:"source_team_key,omitempty"`
}
