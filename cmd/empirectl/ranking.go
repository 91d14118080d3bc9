package main

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"EmpireBuilder/internal/empire/entity"
	httphandler "EmpireBuilder/internal/empire/interfaces/handler/http"
)

func renderRanking(w io.Writer, ranks []httphandler.RankEntry, all []*entity.Empire) error {
	byID := make(map[entity.EmpireID]*entity.Empire, len(all))
	for _, e := range all {
		byID[e.ID] = e
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"#", "Empire", "Ruler", "AI", "Power", "Land", "Cities", "Gold", "Infantry", "Tanks", "Aircraft", "Ships"}),
	)
	for _, r := range ranks {
		e := byID[r.ID]
		if e == nil {
			continue
		}
		ai := "-"
		if e.AI != nil {
			ai = string(e.AI.Difficulty) + "/" + string(e.AI.Strategy)
		}
		row := []string{
			strconv.Itoa(r.Rank),
			r.Name,
			r.Ruler,
			ai,
			strconv.FormatInt(r.Power, 10),
			strconv.FormatInt(r.Land, 10),
			strconv.Itoa(r.Cities),
			strconv.FormatInt(e.Resources.Gold, 10),
			strconv.FormatInt(e.Military.Infantry, 10),
			strconv.FormatInt(e.Military.Tanks, 10),
			strconv.FormatInt(e.Military.Aircraft, 10),
			strconv.FormatInt(e.Military.Ships, 10),
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}
