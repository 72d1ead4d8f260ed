package main

import (
	"context"
	"fmt"

	"github.com/natserract/getresponse/pkg/getresponse"
)

func searchByName(c *getresponse.Client, name string, campaignIDs []string) {
	ctx := context.Background()

	if len(campaignIDs) == 0 {
		campaigns, err := c.GetCampaigns(ctx, getresponse.ListOptions{})
		if err != nil {
			panic(err)
		}
		for _, campaign := range campaigns {
			campaignIDs = append(campaignIDs, campaign.ID)
		}
	}

	value := name
	req := getresponse.SearchContactsRequest{
		SubscribersType:      []getresponse.SubscriberType{getresponse.Subscribed},
		SectionLogicOperator: "or",
		Section: []getresponse.SearchSection{{
			CampaignIDsList:  campaignIDs,
			LogicOperator:    "or",
			SubscriberCycle:  []string{"receiving_autoresponder", "not_receiving_autoresponder"},
			SubscriptionDate: "all_time",
			Conditions: []getresponse.SearchCondition{{
				ConditionType: "name",
				OperatorType:  "string_operator",
				Operator:      getresponse.OpContains,
				Value:         &value,
			}},
		}},
	}

	contacts, err := c.SearchContacts(ctx, req, getresponse.ListOptions{Page: 1, PerPage: 50})
	if err != nil {
		panic(err)
	}

	for _, contact := range contacts {
		fmt.Printf("%s\t%s\t%s\n", contact.ID, contact.Name.Or(""), contact.Email.Or(""))
	}
}
