package mcpserver

// FormatContract describes the subset of the MS Project XML export format
// that ganttview reads. LLM consumers should follow it when producing
// documents for parse_project_xml.
const FormatContract = `# ganttview Project XML Format Contract

ganttview reads Microsoft Project XML exports ("Save As > XML"). Only the
elements below are read; everything else is ignored.

## Structure

` + "```" + `xml
<?xml version="1.0" encoding="UTF-8"?>
<Project xmlns="http://schemas.microsoft.com/project">
  <Name>Warehouse Rollout</Name>          <!-- optional; falls back to Title -->
  <Title>Warehouse Rollout 2025</Title>   <!-- optional -->
  <StartDate>2025-10-27T08:00:00</StartDate>
  <FinishDate>2025-12-19T17:00:00</FinishDate>
  <Tasks>                                  <!-- REQUIRED -->
    <Task>
      <UID>1</UID>                         <!-- REQUIRED, stable identity -->
      <ID>1</ID>                           <!-- display order -->
      <Name>Planning</Name>                <!-- REQUIRED -->
      <Start>2025-10-27T08:00:00</Start>
      <Finish>2025-11-07T17:00:00</Finish>
      <Duration>PT80H0M0S</Duration>
      <Summary>1</Summary>
      <Milestone>0</Milestone>
      <PercentComplete>40</PercentComplete>
      <OutlineNumber>1</OutlineNumber>
      <OutlineLevel>1</OutlineLevel>
      <Notes>Free text, searchable.</Notes>
    </Task>
  </Tasks>
</Project>
` + "```" + `

## Rules

1. **The root element must be ` + "`" + `Project` + "`" + `** and it must contain a ` + "`" + `Tasks` + "`" + `
   element. Anything else is rejected; there is no partial result.
2. **Tasks without ` + "`" + `UID` + "`" + ` or ` + "`" + `Name` + "`" + ` are dropped.** UIDs identify tasks when
   collapsing summaries, so they must be unique.
3. **Order** is by numeric ` + "`" + `ID` + "`" + `; tasks with a non-numeric ID keep document
   order after the numbered ones.
4. **Outline**: ` + "`" + `OutlineLevel` + "`" + ` starts at 1. A task's children are the tasks
   that follow it with a deeper level, so a child may be at most one level deeper
   than its predecessor.
5. **Flags** (` + "`" + `Summary` + "`" + `, ` + "`" + `Milestone` + "`" + `, ` + "`" + `Manual` + "`" + `) are ` + "`" + `1` + "`" + ` or ` + "`" + `0` + "`" + `.
6. **Dates** are ` + "`" + `YYYY-MM-DDTHH:MM:SS` + "`" + `. Values without a zone offset use the
   configured timezone. Unparseable dates leave the bar unplaced.
7. **PercentComplete** is an integer, clamped to 0..100.
8. **Duration** uses the ` + "`" + `PnDTnHnMnS` + "`" + ` form; days count as 24 hours.
9. **Encoding** is UTF-8; documents declaring ISO-8859-1 or windows-1252 are
   converted.

## Chart semantics

- The timeline spans 3 days before the earliest start to 7 days after the latest finish.
- Milestones render as diamonds, summaries as thin bars with end caps, other tasks
  as bars filled to their percent complete.
`
