package msproject

// Sample is a small, well-ordered MS Project export used as the built-in
// demo document and in tests.
const Sample = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Project xmlns="http://schemas.microsoft.com/project">
    <Name>Warehouse Rollout</Name>
    <Title>Warehouse Rollout</Title>
    <StartDate>2025-10-27T08:00:00</StartDate>
    <FinishDate>2025-12-19T17:00:00</FinishDate>
    <Tasks>
        <Task>
            <UID>1</UID>
            <ID>1</ID>
            <Name>Warehouse Rollout</Name>
            <Start>2025-10-27T08:00:00</Start>
            <Finish>2025-12-19T17:00:00</Finish>
            <OutlineNumber>1</OutlineNumber>
            <OutlineLevel>1</OutlineLevel>
            <Summary>1</Summary>
            <Milestone>0</Milestone>
            <PercentComplete>35</PercentComplete>
        </Task>
        <Task>
            <UID>2</UID>
            <ID>2</ID>
            <Name>Planning</Name>
            <Start>2025-10-27T08:00:00</Start>
            <Finish>2025-11-07T17:00:00</Finish>
            <OutlineNumber>1.1</OutlineNumber>
            <OutlineLevel>2</OutlineLevel>
            <Summary>1</Summary>
            <PercentComplete>100</PercentComplete>
        </Task>
        <Task>
            <UID>3</UID>
            <ID>3</ID>
            <Name>Site survey</Name>
            <Start>2025-10-27T08:00:00</Start>
            <Finish>2025-10-27T17:00:00</Finish>
            <Duration>PT8H0M0S</Duration>
            <OutlineNumber>1.1.1</OutlineNumber>
            <OutlineLevel>3</OutlineLevel>
            <Summary>0</Summary>
            <Milestone>0</Milestone>
            <PercentComplete>100</PercentComplete>
        </Task>
        <Task>
            <UID>4</UID>
            <ID>4</ID>
            <Name>Kick-off</Name>
            <Start>2025-10-27T17:00:00</Start>
            <Finish>2025-10-27T17:00:00</Finish>
            <Duration>PT0H0M0S</Duration>
            <OutlineNumber>1.1.2</OutlineNumber>
            <OutlineLevel>3</OutlineLevel>
            <Summary>0</Summary>
            <Milestone>1</Milestone>
        </Task>
        <Task>
            <UID>5</UID>
            <ID>5</ID>
            <Name>Layout design</Name>
            <Start>2025-10-28T08:00:00</Start>
            <Finish>2025-11-07T17:00:00</Finish>
            <Duration>PT72H0M0S</Duration>
            <OutlineNumber>1.1.3</OutlineNumber>
            <OutlineLevel>3</OutlineLevel>
            <Summary>0</Summary>
            <PercentComplete>100</PercentComplete>
            <Notes>Racking plan signed off by operations.</Notes>
        </Task>
        <Task>
            <UID>6</UID>
            <ID>6</ID>
            <Name>Installation</Name>
            <Start>2025-11-10T08:00:00</Start>
            <Finish>2025-12-05T17:00:00</Finish>
            <OutlineNumber>1.2</OutlineNumber>
            <OutlineLevel>2</OutlineLevel>
            <Summary>1</Summary>
            <PercentComplete>20</PercentComplete>
        </Task>
        <Task>
            <UID>7</UID>
            <ID>7</ID>
            <Name>Racking</Name>
            <Start>2025-11-10T08:00:00</Start>
            <Finish>2025-11-21T17:00:00</Finish>
            <Duration>PT80H0M0S</Duration>
            <OutlineNumber>1.2.1</OutlineNumber>
            <OutlineLevel>3</OutlineLevel>
            <Summary>0</Summary>
            <PercentComplete>40</PercentComplete>
        </Task>
        <Task>
            <UID>8</UID>
            <ID>8</ID>
            <Name>Scanner network</Name>
            <Start>2025-11-24T08:00:00</Start>
            <Finish>2025-12-05T17:00:00</Finish>
            <Duration>PT80H0M0S</Duration>
            <OutlineNumber>1.2.2</OutlineNumber>
            <OutlineLevel>3</OutlineLevel>
            <Summary>0</Summary>
            <PercentComplete>0</PercentComplete>
        </Task>
        <Task>
            <UID>9</UID>
            <ID>9</ID>
            <Name>Go-live</Name>
            <Start>2025-12-08T08:00:00</Start>
            <Finish>2025-12-19T17:00:00</Finish>
            <OutlineNumber>1.3</OutlineNumber>
            <OutlineLevel>2</OutlineLevel>
            <Summary>1</Summary>
        </Task>
        <Task>
            <UID>10</UID>
            <ID>10</ID>
            <Name>Staff training</Name>
            <Start>2025-12-08T08:00:00</Start>
            <Finish>2025-12-12T17:00:00</Finish>
            <Duration>PT40H0M0S</Duration>
            <OutlineNumber>1.3.1</OutlineNumber>
            <OutlineLevel>3</OutlineLevel>
            <Summary>0</Summary>
        </Task>
        <Task>
            <UID>11</UID>
            <ID>11</ID>
            <Name>Handover</Name>
            <Start>2025-12-19T17:00:00</Start>
            <Finish>2025-12-19T17:00:00</Finish>
            <OutlineNumber>1.3.2</OutlineNumber>
            <OutlineLevel>3</OutlineLevel>
            <Summary>0</Summary>
            <Milestone>1</Milestone>
        </Task>
    </Tasks>
</Project>
`
